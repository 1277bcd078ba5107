package documento

import (
	"context"
	"errors"
)

// ErrDocumentoNotFound ocorre quando o documento não existe
var ErrDocumentoNotFound = errors.New("documento não encontrado")

// Repository define a persistência dos documentos gerados
type Repository interface {
	Create(ctx context.Context, d *Documento) error
	FindByID(ctx context.Context, id string) (*Documento, error)
	ListByUser(ctx context.Context, userID string) ([]*Documento, error)
}

// Erros de geração de documentos
var (
	ErrForbidden     = errors.New("você não tem permissão para acessar este documento")
	ErrInvalidFormat = errors.New("formato de exportação inválido")
	ErrNoContent     = errors.New("não há mensagens para gerar o documento")
)
