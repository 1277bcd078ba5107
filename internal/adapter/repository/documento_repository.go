package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/sumy-api/internal/domain/documento"
	"github.com/hugohenrick/sumy-api/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// DocumentoRepository implementa a interface documento.Repository usando PostgreSQL
type DocumentoRepository struct {
	db database.DBTX
}

// NewDocumentoRepository cria uma nova instância de DocumentoRepository
func NewDocumentoRepository(db database.DBTX) documento.Repository {
	return &DocumentoRepository{db: db}
}

const documentoColumns = `id, user_id, conversa_id, project_name, format, file_name, file_url, created_at`

// Create implementa documento.Repository.Create
func (r *DocumentoRepository) Create(ctx context.Context, d *documento.Documento) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO documentos (`+documentoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.UserID, d.ConversaID, d.ProjectName, string(d.Format), d.FileName, d.FileURL, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar documento: %w", err)
	}
	return nil
}

// FindByID implementa documento.Repository.FindByID
func (r *DocumentoRepository) FindByID(ctx context.Context, id string) (*documento.Documento, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, documento.ErrDocumentoNotFound
	}

	d, err := scanDocumento(r.db.QueryRow(ctx, `SELECT `+documentoColumns+` FROM documentos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, documento.ErrDocumentoNotFound
		}
		return nil, fmt.Errorf("erro ao buscar documento: %w", err)
	}
	return d, nil
}

// ListByUser implementa documento.Repository.ListByUser
func (r *DocumentoRepository) ListByUser(ctx context.Context, userID string) ([]*documento.Documento, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentoColumns+`
		FROM documentos
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar documentos: %w", err)
	}
	defer rows.Close()

	documentos := make([]*documento.Documento, 0)
	for rows.Next() {
		d, err := scanDocumento(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler documento: %w", err)
		}
		documentos = append(documentos, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}
	return documentos, nil
}

func scanDocumento(row pgx.Row) (*documento.Documento, error) {
	var (
		d      documento.Documento
		format string
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.ConversaID, &d.ProjectName, &format, &d.FileName, &d.FileURL, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Format = documento.Formato(format)
	return &d, nil
}
