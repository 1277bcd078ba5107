package documento

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	domainconversa "github.com/hugohenrick/sumy-api/internal/domain/conversa"
	domain "github.com/hugohenrick/sumy-api/internal/domain/documento"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/storage"
	"github.com/hugohenrick/sumy-api/pkg/tools"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type memDocumentos struct {
	mu   sync.Mutex
	docs map[string]*domain.Documento
}

func (m *memDocumentos) Create(_ context.Context, d *domain.Documento) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = uuid.New().String()
	d.CreatedAt = fixedNow
	cp := *d
	m.docs[d.ID] = &cp
	return nil
}

func (m *memDocumentos) FindByID(_ context.Context, id string) (*domain.Documento, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrDocumentoNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDocumentos) ListByUser(_ context.Context, userID string) ([]*domain.Documento, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Documento, 0)
	for _, d := range m.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeConversas struct {
	conversa  *domainconversa.Conversa
	mensagens []*domainconversa.Mensagem
}

func (f *fakeConversas) FindByID(_ context.Context, id string) (*domainconversa.Conversa, error) {
	if f.conversa == nil || f.conversa.ID != id {
		return nil, domainconversa.ErrConversaNotFound
	}
	return f.conversa, nil
}

func (f *fakeConversas) ListMessages(context.Context, string) ([]*domainconversa.Mensagem, error) {
	return f.mensagens, nil
}

func newTestService(conversas *fakeConversas) (*Service, *memDocumentos) {
	repo := &memDocumentos{docs: make(map[string]*domain.Documento)}
	store := storage.NewWithFs(afero.NewMemMapFs(), "http://localhost:8080/files")
	svc := NewService(repo, conversas, store, logger.NewNop())
	svc.now = func() time.Time { return fixedNow }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id%d", seq)
	}
	return svc, repo
}

func documentXML(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			r, err := f.Open()
			require.NoError(t, err)
			body, err := io.ReadAll(r)
			require.NoError(t, err)
			return string(body)
		}
	}
	t.Fatal("word/document.xml ausente")
	return ""
}

func TestGenerate_Docx(t *testing.T) {
	svc, _ := newTestService(&fakeConversas{})
	ctx := context.Background()

	doc, err := svc.Generate(ctx, GenerateRequest{
		ProjectName:    "Gestão de Pedidos",
		Specifications: "## Objetivo\n\n**Controlar** pedidos",
		Format:         "docx",
		OwnerID:        "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatoDOCX, doc.Format)
	assert.Equal(t, "especificacao_Gest_o_de_Pedidos_1714557600000_id1.docx", doc.FileName)
	assert.Equal(t, "http://localhost:8080/files/"+doc.FileName, doc.FileURL)

	_, rc, err := svc.Open(ctx, "u1", doc.ID)
	require.NoError(t, err)
	body := documentXML(t, rc)
	assert.Contains(t, body, "Especificação Funcional - Gestão de Pedidos")
	assert.Contains(t, body, "Gerado em: 01/05/2024")
	assert.Contains(t, body, "Controlar")
}

func TestGenerate_TxtAndPdf(t *testing.T) {
	svc, _ := newTestService(&fakeConversas{})
	ctx := context.Background()

	txt, err := svc.Generate(ctx, GenerateRequest{ProjectName: "Pedidos", Specifications: "linha 1", Format: "TXT", OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatoTXT, txt.Format)

	_, rc, err := svc.Open(ctx, "u1", txt.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "Especificação Funcional - Pedidos\n\nGerado em: 01/05/2024\n\nlinha 1\n", string(data))

	pdf, err := svc.Generate(ctx, GenerateRequest{ProjectName: "Pedidos", Specifications: "x", Format: "pdf", OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatoDOCX, pdf.Format)
	assert.Contains(t, pdf.FileName, ".docx")
}

func TestGenerate_Invalid(t *testing.T) {
	svc, repo := newTestService(&fakeConversas{})
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{ProjectName: "P", Specifications: "x", Format: "odt"})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	_, err = svc.Generate(ctx, GenerateRequest{ProjectName: " ", Specifications: "x", Format: "docx"})
	assert.ErrorIs(t, err, domainconversa.ErrValidation)

	assert.Empty(t, repo.docs)
}

func TestExportSpecification(t *testing.T) {
	svc, repo := newTestService(&fakeConversas{})

	var exporter tools.Exporter = svc
	out, err := exporter.ExportSpecification(context.Background(), tools.ExportRequest{
		ProjectName: "Faturamento", Specifications: "- item", Format: "docx", OwnerID: "u7",
	})
	require.NoError(t, err)
	assert.Equal(t, "especificacao_Faturamento_1714557600000_id1.docx", out.FileName)
	assert.Equal(t, "docx", out.Format)
	assert.Equal(t, "http://localhost:8080/files/especificacao_Faturamento_1714557600000_id1.docx", out.FileURL)

	docs, err := svc.List(context.Background(), "u7")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Len(t, repo.docs, 1)
}

func TestExportSpecification_PdfReportsDocx(t *testing.T) {
	svc, _ := newTestService(&fakeConversas{})

	out, err := svc.ExportSpecification(context.Background(), tools.ExportRequest{
		ProjectName: "Faturamento", Specifications: "- item", Format: "pdf", OwnerID: "u7",
	})
	require.NoError(t, err)
	assert.Equal(t, "docx", out.Format)
	assert.True(t, strings.HasSuffix(out.FileName, ".docx"))
}

func TestGenerate_SameMillisecondKeepsBothFiles(t *testing.T) {
	repo := &memDocumentos{docs: make(map[string]*domain.Documento)}
	store := storage.NewWithFs(afero.NewMemMapFs(), "http://localhost:8080/files")
	svc := NewService(repo, &fakeConversas{}, store, logger.NewNop())
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	first, err := svc.Generate(ctx, GenerateRequest{ProjectName: "Pedidos", Specifications: "primeira", Format: "txt", OwnerID: "u1"})
	require.NoError(t, err)
	second, err := svc.Generate(ctx, GenerateRequest{ProjectName: "Pedidos", Specifications: "segunda", Format: "txt", OwnerID: "u1"})
	require.NoError(t, err)

	assert.NotEqual(t, first.FileName, second.FileName)
	assert.True(t, strings.HasPrefix(first.FileName, "especificacao_Pedidos_1714557600000_"))

	for doc, want := range map[*domain.Documento]string{first: "primeira", second: "segunda"} {
		_, rc, err := svc.Open(ctx, "u1", doc.ID)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Contains(t, string(data), want)
	}
}

func seededConversa() *fakeConversas {
	c := &domainconversa.Conversa{ID: "c1", UserID: "u1", Secao: "Pedidos"}
	msg := func(role domainconversa.Role, content string) *domainconversa.Mensagem {
		return &domainconversa.Mensagem{ConversaID: "c1", Role: role, Content: content}
	}
	return &fakeConversas{
		conversa: c,
		mensagens: []*domainconversa.Mensagem{
			msg(domainconversa.RoleUser, "O meu nome é Ana"),
			msg(domainconversa.RoleAssistant, "Olá Ana"),
			msg(domainconversa.RoleAssistant, `Qual o "objetivo"?`),
			msg(domainconversa.RoleUser, "Controlar pedidos"),
			msg(domainconversa.RoleAssistant, "Resumo final da especificação"),
		},
	}
}

func TestGenerateFromConversa(t *testing.T) {
	svc, _ := newTestService(seededConversa())
	ctx := context.Background()

	doc, err := svc.GenerateFromConversa(ctx, "u1", "c1")
	require.NoError(t, err)
	require.NotNil(t, doc.ConversaID)
	assert.Equal(t, "c1", *doc.ConversaID)
	assert.Equal(t, "especificacao_Pedidos_1714557600000_id1.docx", doc.FileName)

	_, rc, err := svc.Open(ctx, "u1", doc.ID)
	require.NoError(t, err)
	body := documentXML(t, rc)

	assert.Contains(t, body, "Especificação Funcional - Pedidos")
	assert.Contains(t, body, "Informações Coletadas")
	assert.Contains(t, body, "Qual o objetivo?")
	assert.Contains(t, body, "Controlar pedidos")
	assert.Contains(t, body, "Resumo / Conclusão")
	assert.Contains(t, body, "Resumo final da especificação")
	assert.NotContains(t, body, "O meu nome é Ana")
	assert.NotContains(t, body, "Olá Ana")
}

func TestGenerateFromConversa_Errors(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(seededConversa())
	_, err := svc.GenerateFromConversa(ctx, "u2", "c1")
	assert.ErrorIs(t, err, domainconversa.ErrForbidden)

	_, err = svc.GenerateFromConversa(ctx, "u1", "outra")
	assert.ErrorIs(t, err, domainconversa.ErrConversaNotFound)

	short := seededConversa()
	short.mensagens = short.mensagens[:2]
	svc, _ = newTestService(short)
	_, err = svc.GenerateFromConversa(ctx, "u1", "c1")
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestOpen_Ownership(t *testing.T) {
	svc, _ := newTestService(&fakeConversas{})
	ctx := context.Background()

	doc, err := svc.Generate(ctx, GenerateRequest{ProjectName: "P", Specifications: "x", Format: "txt", OwnerID: "u1"})
	require.NoError(t, err)

	_, _, err = svc.Open(ctx, "u2", doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = svc.Open(ctx, "u1", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrDocumentoNotFound)
}
