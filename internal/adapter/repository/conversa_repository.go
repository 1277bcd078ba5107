package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/sumy-api/internal/domain/conversa"
	"github.com/hugohenrick/sumy-api/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// ConversaRepository implementa a interface conversa.Repository usando PostgreSQL
type ConversaRepository struct {
	db database.DBTX
}

// NewConversaRepository cria uma nova instância de ConversaRepository
func NewConversaRepository(db database.DBTX) conversa.Repository {
	return &ConversaRepository{db: db}
}

const insertMensagemSQL = `
	INSERT INTO mensagens (id, conversa_id, role, content, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING seq`

// Create implementa conversa.Repository.Create
func (r *ConversaRepository) Create(ctx context.Context, c *conversa.Conversa, seed *conversa.Mensagem) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO conversas (id, user_id, secao, thread_id, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.UserID, c.Secao, c.ThreadID, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("erro ao criar conversa: %w", err)
		}

		if seed == nil {
			return nil
		}
		seed.ConversaID = c.ID
		return insertMensagem(ctx, tx, seed)
	})
}

// FindByID implementa conversa.Repository.FindByID
func (r *ConversaRepository) FindByID(ctx context.Context, id string) (*conversa.Conversa, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, conversa.ErrConversaNotFound
	}

	var c conversa.Conversa
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, secao, thread_id, created_at
		FROM conversas
		WHERE id = $1`, id,
	).Scan(&c.ID, &c.UserID, &c.Secao, &c.ThreadID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conversa.ErrConversaNotFound
		}
		return nil, fmt.Errorf("erro ao buscar conversa: %w", err)
	}
	return &c, nil
}

// ListByUser implementa conversa.Repository.ListByUser
func (r *ConversaRepository) ListByUser(ctx context.Context, userID string) ([]*conversa.Conversa, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, secao, thread_id, created_at
		FROM conversas
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar conversas: %w", err)
	}
	defer rows.Close()

	conversas := make([]*conversa.Conversa, 0)
	for rows.Next() {
		var c conversa.Conversa
		if err := rows.Scan(&c.ID, &c.UserID, &c.Secao, &c.ThreadID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler conversa: %w", err)
		}
		conversas = append(conversas, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}
	return conversas, nil
}

// UpdateSecao implementa conversa.Repository.UpdateSecao
func (r *ConversaRepository) UpdateSecao(ctx context.Context, id, secao string) error {
	tag, err := r.db.Exec(ctx, `UPDATE conversas SET secao = $1 WHERE id = $2`, secao, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar conversa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return conversa.ErrConversaNotFound
	}
	return nil
}

// AppendMessage implementa conversa.Repository.AppendMessage
func (r *ConversaRepository) AppendMessage(ctx context.Context, m *conversa.Mensagem) error {
	return insertMensagem(ctx, r.db, m)
}

// ListMessages implementa conversa.Repository.ListMessages
func (r *ConversaRepository) ListMessages(ctx context.Context, conversaID string) ([]*conversa.Mensagem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, conversa_id, role, content, created_at, seq
		FROM mensagens
		WHERE conversa_id = $1
		ORDER BY created_at ASC, seq ASC`, conversaID,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar mensagens: %w", err)
	}
	defer rows.Close()

	mensagens := make([]*conversa.Mensagem, 0)
	for rows.Next() {
		var (
			m    conversa.Mensagem
			role string
		)
		if err := rows.Scan(&m.ID, &m.ConversaID, &role, &m.Content, &m.CreatedAt, &m.Seq); err != nil {
			return nil, fmt.Errorf("erro ao ler mensagem: %w", err)
		}
		m.Role = conversa.Role(role)
		mensagens = append(mensagens, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}
	return mensagens, nil
}

// SaveReply implementa conversa.Repository.SaveReply
func (r *ConversaRepository) SaveReply(ctx context.Context, conversaID, threadID string, reply *conversa.Mensagem) error {
	reply.ConversaID = conversaID

	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE conversas SET thread_id = $1 WHERE id = $2`, threadID, conversaID)
		if err != nil {
			return fmt.Errorf("erro ao atualizar sessão da conversa: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return conversa.ErrConversaNotFound
		}
		return insertMensagem(ctx, tx, reply)
	})
}

// Delete implementa conversa.Repository.Delete
func (r *ConversaRepository) Delete(ctx context.Context, id string) error {
	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM mensagens WHERE conversa_id = $1`, id); err != nil {
			return fmt.Errorf("erro ao deletar mensagens: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM conversas WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("erro ao deletar conversa: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return conversa.ErrConversaNotFound
		}
		return nil
	})
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertMensagem(ctx context.Context, q queryRower, m *conversa.Mensagem) error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: papel de mensagem desconhecido %q", conversa.ErrValidation, m.Role)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	err := q.QueryRow(ctx, insertMensagemSQL,
		m.ID, m.ConversaID, string(m.Role), m.Content, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("erro ao salvar mensagem: %w", err)
	}
	return nil
}
