package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/sumy-api/internal/domain/user"
	"github.com/hugohenrick/sumy-api/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// código do PostgreSQL para violação de unicidade
const uniqueViolation = "23505"

// UserRepository implementa a interface user.Repository usando PostgreSQL
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db database.DBTX) user.Repository {
	return &UserRepository{db: db}
}

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = user.RoleUser
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.Password, string(u.Role), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrUserDuplicateEmail
		}
		return fmt.Errorf("falha ao criar usuário: %w", err)
	}
	return nil
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, user.ErrUserNotFound
	}
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByEmail implementa user.Repository.FindByEmail
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*user.User, error) {
	var (
		u    user.User
		role string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	u.Role = user.Role(role)
	return &u, nil
}
