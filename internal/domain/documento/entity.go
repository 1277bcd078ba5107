package documento

import (
	"strings"
	"time"
)

// Formato representa o tipo de arquivo gerado
type Formato string

// Formatos suportados
const (
	FormatoPDF  Formato = "pdf"
	FormatoDOCX Formato = "docx"
	FormatoTXT  Formato = "txt"
)

// ParseFormato normaliza e valida um formato informado pelo usuário ou pelo assistente
func ParseFormato(raw string) (Formato, bool) {
	f := Formato(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FormatoPDF, FormatoDOCX, FormatoTXT:
		return f, true
	}
	return "", false
}

// Extension retorna a extensão de arquivo do formato
func (f Formato) Extension() string {
	return "." + string(f)
}

// ContentType retorna o tipo MIME usado no download
func (f Formato) ContentType() string {
	switch f {
	case FormatoTXT:
		return "text/plain; charset=utf-8"
	case FormatoPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
}

// Documento representa um arquivo gerado a partir de uma conversa ou pelo assistente
type Documento struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ConversaID  *string   `json:"conversa_id,omitempty"`
	ProjectName string    `json:"project_name"`
	Format      Formato   `json:"format"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
}
