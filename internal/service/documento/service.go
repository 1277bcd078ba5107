package documento

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	domainconversa "github.com/hugohenrick/sumy-api/internal/domain/conversa"
	domain "github.com/hugohenrick/sumy-api/internal/domain/documento"
	"github.com/hugohenrick/sumy-api/pkg/docx"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/tools"
)

// mensagens de abertura (apresentação do usuário e saudação) que não entram no documento
const skipOpening = 2

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Storage grava e lê os arquivos gerados
type Storage interface {
	Save(ctx context.Context, name string, data []byte) (fileName, fileURL string, err error)
	Open(name string) (io.ReadCloser, error)
}

// ConversaReader fornece a conversa e suas mensagens
type ConversaReader interface {
	FindByID(ctx context.Context, id string) (*domainconversa.Conversa, error)
	ListMessages(ctx context.Context, conversaID string) ([]*domainconversa.Mensagem, error)
}

// GenerateRequest é o pedido de geração de uma especificação funcional
type GenerateRequest struct {
	ProjectName    string
	Specifications string
	Format         string
	OwnerID        string
	ConversaID     *string
}

// Service gera, grava e entrega os documentos de especificação
type Service struct {
	repo      domain.Repository
	conversas ConversaReader
	storage   Storage
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewService cria uma nova instância de Service
func NewService(repo domain.Repository, conversas ConversaReader, storage Storage, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		conversas: conversas,
		storage:   storage,
		logger:    log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Generate gera o documento de uma especificação escrita pelo assistente.
// O formato pdf é entregue como documento Word.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*domain.Documento, error) {
	project := strings.TrimSpace(req.ProjectName)
	if project == "" || strings.TrimSpace(req.Specifications) == "" {
		return nil, fmt.Errorf("%w: nome do projeto e especificações são obrigatórios", domainconversa.ErrValidation)
	}

	format, ok := domain.ParseFormato(req.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, req.Format)
	}
	if format == domain.FormatoPDF {
		s.logger.Warn("Formato pdf gerado como docx", "project_name", project)
		format = domain.FormatoDOCX
	}

	now := s.now()
	title := "Especificação Funcional - " + project
	generated := "Gerado em: " + now.Format("02/01/2006")

	var data []byte
	switch format {
	case domain.FormatoTXT:
		data = []byte(title + "\n\n" + generated + "\n\n" + strings.TrimSpace(req.Specifications) + "\n")
	default:
		doc := docx.New()
		doc.Heading(1, title)
		doc.Text(generated)
		doc.Markdown(req.Specifications)

		var err error
		if data, err = doc.Bytes(); err != nil {
			return nil, err
		}
	}

	return s.store(ctx, &domain.Documento{
		UserID:      req.OwnerID,
		ConversaID:  req.ConversaID,
		ProjectName: project,
		Format:      format,
	}, s.fileName(project, now, format), data)
}

// ExportSpecification atende a função de exportação chamada pelo assistente
func (s *Service) ExportSpecification(ctx context.Context, req tools.ExportRequest) (*tools.ExportedDocument, error) {
	doc, err := s.Generate(ctx, GenerateRequest{
		ProjectName:    req.ProjectName,
		Specifications: req.Specifications,
		Format:         req.Format,
		OwnerID:        req.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	return &tools.ExportedDocument{FileName: doc.FileName, FileURL: doc.FileURL, Format: string(doc.Format)}, nil
}

// GenerateFromConversa monta um documento Word com as perguntas e respostas de uma conversa
func (s *Service) GenerateFromConversa(ctx context.Context, userID, conversaID string) (*domain.Documento, error) {
	c, err := s.conversas.FindByID(ctx, conversaID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(userID) {
		return nil, domainconversa.ErrForbidden
	}

	msgs, err := s.conversas.ListMessages(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(msgs) <= skipOpening {
		return nil, domain.ErrNoContent
	}
	msgs = msgs[skipOpening:]

	now := s.now()
	doc := docx.New()
	doc.Heading(1, "Especificação Funcional - "+c.Secao)
	doc.Text("Gerado em: " + now.Format("02/01/2006"))
	doc.Heading(2, "Informações Coletadas")

	var question string
	for _, m := range msgs {
		switch {
		case m.Role == domainconversa.RoleAssistant:
			question = m.Content
		case m.Role == domainconversa.RoleUser && question != "":
			doc.Bullet(strings.ReplaceAll(question, `"`, ""))
			doc.TextIndented(m.Content, 600)
			question = ""
		}
	}

	if last := msgs[len(msgs)-1]; last.Role == domainconversa.RoleAssistant {
		doc.Heading(2, "Resumo / Conclusão")
		doc.Text(last.Content)
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	conversaRef := c.ID
	return s.store(ctx, &domain.Documento{
		UserID:      userID,
		ConversaID:  &conversaRef,
		ProjectName: c.Secao,
		Format:      domain.FormatoDOCX,
	}, s.fileName(c.Secao, now, domain.FormatoDOCX), data)
}

// List lista os documentos do usuário, mais recentes primeiro
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Documento, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Open retorna um documento do usuário e o conteúdo do arquivo.
// Quem chama deve fechar o ReadCloser.
func (s *Service) Open(ctx context.Context, userID, id string) (*domain.Documento, io.ReadCloser, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}

	rc, err := s.storage.Open(d.FileName)
	if err != nil {
		return nil, nil, err
	}
	return d, rc, nil
}

func (s *Service) store(ctx context.Context, d *domain.Documento, name string, data []byte) (*domain.Documento, error) {
	fileName, fileURL, err := s.storage.Save(ctx, name, data)
	if err != nil {
		return nil, err
	}
	d.FileName = fileName
	d.FileURL = fileURL

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Documento gerado", "documento_id", d.ID, "user_id", d.UserID, "file_name", d.FileName)
	return d, nil
}

// fileName monta o nome do arquivo com um sufixo aleatório
func (s *Service) fileName(project string, now time.Time, format domain.Formato) string {
	return fmt.Sprintf("especificacao_%s_%d_%s%s", nonAlnum.ReplaceAllString(project, "_"), now.UnixMilli(), s.newID(), format.Extension())
}
