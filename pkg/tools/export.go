package tools

import (
	"context"
	"fmt"
)

// ExportToolName é o nome da função de exportação conhecida pelo assistente
const ExportToolName = "export_functional_specification"

// ExportArgs são os argumentos da função de exportação
type ExportArgs struct {
	ProjectName    string `json:"project_name" jsonschema:"minLength=1" jsonschema_description:"O nome do projeto para o qual as especificações funcionais estão sendo exportadas."`
	Specifications string `json:"specifications" jsonschema:"minLength=1" jsonschema_description:"As especificações funcionais a serem exportadas."`
	Format         string `json:"format" jsonschema:"enum=pdf,enum=docx,enum=txt" jsonschema_description:"O formato de exportação desejado."`
}

// ExportRequest é o pedido de geração de documento enviado ao exportador
type ExportRequest struct {
	ProjectName    string
	Specifications string
	Format         string
	OwnerID        string
}

// ExportedDocument identifica o arquivo gerado.
// Format é o formato efetivamente entregue, que pode diferir do pedido.
type ExportedDocument struct {
	FileName string
	FileURL  string
	Format   string
}

// Exporter gera o documento de uma especificação funcional
type Exporter interface {
	ExportSpecification(ctx context.Context, req ExportRequest) (*ExportedDocument, error)
}

// NewExportTool cria a ferramenta export_functional_specification
func NewExportTool(exporter Exporter) Tool {
	return NewTool(ExportToolName,
		"Gera uma função que identifica e exporta especificações funcionais quando solicitado pelo usuário.",
		func(ctx context.Context, call Call, args ExportArgs) (*Result, error) {
			doc, err := exporter.ExportSpecification(ctx, ExportRequest{
				ProjectName:    args.ProjectName,
				Specifications: args.Specifications,
				Format:         args.Format,
				OwnerID:        call.OwnerID,
			})
			if err != nil {
				return nil, fmt.Errorf("erro ao gerar documento: %w", err)
			}

			format := doc.Format
			if format == "" {
				format = args.Format
			}

			return Success("Especificação gerada com sucesso", map[string]any{
				"project_name": args.ProjectName,
				"format":       format,
				"file_name":    doc.FileName,
				"file_path":    doc.FileURL,
			}), nil
		},
	)
}
