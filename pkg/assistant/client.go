package assistant

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Erros do cliente do assistente
var (
	// ErrMalformedResponse indica que o servidor respondeu fora do protocolo esperado
	ErrMalformedResponse = stderrors.New("resposta malformada do assistente")

	// ErrAssistantNotConfigured ocorre quando um run é iniciado antes de EnsureAssistant
	ErrAssistantNotConfigured = stderrors.New("assistente não configurado")
)

// Config contém as configurações do assistente remoto
type Config struct {
	APIKey       string
	BaseURL      string
	AssistantID  string
	Model        string
	Name         string
	Instructions string
	HTTPClient   *http.Client
}

// Client encapsula a API de assistentes da OpenAI.
// O ID do assistente é fixado em EnsureAssistant e não muda depois disso.
type Client struct {
	api         *openai.Client
	cfg         Config
	assistantID string
}

// NewClient cria uma nova instância de Client
func NewClient(cfg Config) *Client {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Instructions == "" {
		cfg.Instructions = DefaultInstructions
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		cfg:         cfg,
		assistantID: cfg.AssistantID,
	}
}

// AssistantID retorna o ID do assistente em uso
func (c *Client) AssistantID() string {
	return c.assistantID
}

// EnsureAssistant reaproveita o assistente configurado ou cria um novo com as ferramentas informadas.
// Deve ser chamado uma única vez na inicialização.
func (c *Client) EnsureAssistant(ctx context.Context, tools []openai.AssistantTool) (string, error) {
	if c.assistantID != "" {
		return c.assistantID, nil
	}

	name := c.cfg.Name
	instructions := c.cfg.Instructions
	created, err := c.api.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        c.cfg.Model,
		Name:         &name,
		Instructions: &instructions,
		Tools:        tools,
	})
	if err != nil {
		return "", errors.Wrap(err, "erro ao criar assistente")
	}
	if created.ID == "" {
		return "", errors.Wrap(ErrMalformedResponse, "assistente criado sem identificador")
	}

	c.assistantID = created.ID
	return created.ID, nil
}

// CreateSession cria uma nova thread remota
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", errors.Wrap(err, "erro ao criar thread")
	}
	if thread.ID == "" {
		return "", errors.Wrap(ErrMalformedResponse, "thread criada sem identificador")
	}
	return thread.ID, nil
}

// SessionExists verifica se a thread ainda existe.
// Só uma resposta 404 confirma a expiração; outros erros são retornados.
func (c *Client) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	if _, err := c.api.RetrieveThread(ctx, sessionID); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "erro ao verificar thread %s", sessionID)
	}
	return true, nil
}

// AppendToSession adiciona uma mensagem de usuário à thread
func (c *Client) AppendToSession(ctx context.Context, sessionID, content string) error {
	_, err := c.api.CreateMessage(ctx, sessionID, openai.MessageRequest{
		Role:    string(openai.ThreadMessageRoleUser),
		Content: content,
	})
	if err != nil {
		return errors.Wrap(err, "erro ao adicionar mensagem na thread")
	}
	return nil
}

// StartRun inicia a execução do assistente sobre a thread
func (c *Client) StartRun(ctx context.Context, sessionID string) (*RunState, error) {
	if c.assistantID == "" {
		return nil, ErrAssistantNotConfigured
	}

	run, err := c.api.CreateRun(ctx, sessionID, openai.RunRequest{AssistantID: c.assistantID})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao iniciar run")
	}
	return newRunState(run)
}

// GetRunStatus consulta o estado atual de um run
func (c *Client) GetRunStatus(ctx context.Context, sessionID, runID string) (*RunState, error) {
	run, err := c.api.RetrieveRun(ctx, sessionID, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao consultar run %s", runID)
	}
	return newRunState(run)
}

// SubmitToolOutputs envia os resultados das chamadas de função e retoma o run
func (c *Client) SubmitToolOutputs(ctx context.Context, sessionID, runID string, outputs []ToolOutput) (*RunState, error) {
	req := openai.SubmitToolOutputsRequest{ToolOutputs: make([]openai.ToolOutput, 0, len(outputs))}
	for _, out := range outputs {
		req.ToolOutputs = append(req.ToolOutputs, openai.ToolOutput{ToolCallID: out.CallID, Output: out.Output})
	}

	run, err := c.api.SubmitToolOutputs(ctx, sessionID, runID, req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao enviar resultado das funções")
	}
	return newRunState(run)
}

// CancelRun solicita o cancelamento de um run
func (c *Client) CancelRun(ctx context.Context, sessionID, runID string) error {
	if _, err := c.api.CancelRun(ctx, sessionID, runID); err != nil {
		return errors.Wrapf(err, "erro ao cancelar run %s", runID)
	}
	return nil
}

// ListMessages lista as mensagens do papel informado, mais recentes primeiro.
// Quando runID é informado, apenas mensagens produzidas por esse run são retornadas.
func (c *Client) ListMessages(ctx context.Context, sessionID, role, runID string) ([]SessionMessage, error) {
	limit := 20
	order := "desc"
	var runFilter *string
	if runID != "" {
		runFilter = &runID
	}

	list, err := c.api.ListMessage(ctx, sessionID, &limit, &order, nil, nil, runFilter)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar mensagens da thread")
	}

	out := make([]SessionMessage, 0, len(list.Messages))
	for _, m := range list.Messages {
		if role != "" && m.Role != role {
			continue
		}
		msg := SessionMessage{ID: m.ID, Role: m.Role}
		for _, content := range m.Content {
			if content.Type == "text" && content.Text != nil {
				msg.Text = content.Text.Value
				break
			}
		}
		out = append(out, msg)
	}
	return out, nil
}

// IsNotFound informa se o erro é uma resposta 404 do servidor
func IsNotFound(err error) bool {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusNotFound
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
