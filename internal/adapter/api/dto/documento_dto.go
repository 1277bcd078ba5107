package dto

import (
	"time"

	"github.com/hugohenrick/sumy-api/internal/domain/documento"
)

// DocumentoResponse representa um documento gerado
type DocumentoResponse struct {
	ID          string    `json:"id"`
	ConversaID  *string   `json:"conversaId,omitempty"`
	ProjectName string    `json:"projectName"`
	Format      string    `json:"format"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToDocumentoResponse converte um documento do domínio para DTO de resposta
func ToDocumentoResponse(d *documento.Documento) DocumentoResponse {
	return DocumentoResponse{
		ID:          d.ID,
		ConversaID:  d.ConversaID,
		ProjectName: d.ProjectName,
		Format:      string(d.Format),
		FileName:    d.FileName,
		FileURL:     d.FileURL,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDocumentoListResponse converte uma lista de documentos
func ToDocumentoListResponse(list []*documento.Documento) []DocumentoResponse {
	out := make([]DocumentoResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToDocumentoResponse(d))
	}
	return out
}
