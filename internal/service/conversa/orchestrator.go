package conversa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hugohenrick/sumy-api/internal/config"
	domain "github.com/hugohenrick/sumy-api/internal/domain/conversa"
	"github.com/hugohenrick/sumy-api/pkg/assistant"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/tools"
)

// tempo máximo do cancelamento de um run abortado
const cancelRunTimeout = 10 * time.Second

var errRunPending = errors.New("run ainda em processamento")

// prazo aplicado quando a configuração não limita a espera
var defaultPollMaxWait = 3 * time.Minute

// RemoteSession é o contrato com o serviço de assistentes remoto
type RemoteSession interface {
	CreateSession(ctx context.Context) (string, error)
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	AppendToSession(ctx context.Context, sessionID, content string) error
	StartRun(ctx context.Context, sessionID string) (*assistant.RunState, error)
	GetRunStatus(ctx context.Context, sessionID, runID string) (*assistant.RunState, error)
	SubmitToolOutputs(ctx context.Context, sessionID, runID string, outputs []assistant.ToolOutput) (*assistant.RunState, error)
	ListMessages(ctx context.Context, sessionID, role, runID string) ([]assistant.SessionMessage, error)
	CancelRun(ctx context.Context, sessionID, runID string) error
}

// ToolDispatcher executa as funções solicitadas pelo assistente
type ToolDispatcher interface {
	Dispatch(ctx context.Context, call tools.Call) (*tools.Result, error)
}

// Turn é uma mensagem a ser entregue na sessão remota
type Turn struct {
	Role    domain.Role
	Content string
}

// HistoryLoader carrega as mensagens já persistidas da conversa, em ordem.
// Só é chamado quando a sessão remota expirou.
type HistoryLoader func(ctx context.Context) ([]Turn, error)

// ExchangeRequest é o pedido de uma troca com o assistente.
// O último elemento de Turns é a mensagem nova.
type ExchangeRequest struct {
	Turns     []Turn
	SessionID string
	OwnerID   string
	History   HistoryLoader
}

// ExchangeResult é o resultado de uma troca bem-sucedida
type ExchangeResult struct {
	Response  string
	SessionID string
	Replaced  bool
}

// Orchestrator conduz uma troca completa com o assistente remoto:
// resolve a sessão, entrega as mensagens, acompanha o run e atende as chamadas de função.
type Orchestrator struct {
	remote RemoteSession
	tools  ToolDispatcher
	cfg    config.PollConfig
	logger logger.Logger
}

// NewOrchestrator cria uma nova instância de Orchestrator
func NewOrchestrator(remote RemoteSession, dispatcher ToolDispatcher, cfg config.PollConfig, log logger.Logger) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MaxInterval < cfg.Interval {
		cfg.MaxInterval = cfg.Interval
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultPollMaxWait
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 5
	}

	return &Orchestrator{
		remote: remote,
		tools:  dispatcher,
		cfg:    cfg,
		logger: log,
	}
}

// Exchange entrega as mensagens ao assistente e retorna a resposta final
func (o *Orchestrator) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResult, error) {
	if len(req.Turns) == 0 {
		return nil, fmt.Errorf("%w: nenhuma mensagem para enviar", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Turns[len(req.Turns)-1].Content) == "" {
		return nil, fmt.Errorf("%w: mensagem vazia", domain.ErrValidation)
	}

	log := o.logger.With("user_id", req.OwnerID)

	sessionID, replay, replaced, err := o.resolveSession(ctx, req, log)
	if err != nil {
		return nil, err
	}
	log = log.With("session_id", sessionID)

	for _, turn := range replay {
		if err := o.remote.AppendToSession(ctx, sessionID, turn.Content); err != nil {
			return nil, o.remoteError(ctx, err)
		}
	}

	run, err := o.remote.StartRun(ctx, sessionID)
	if err != nil {
		return nil, o.remoteError(ctx, err)
	}
	log = log.With("run_id", run.RunID)
	log.Debug("Run iniciado", "replayed", len(replay), "replaced", replaced)

	answer, last, err := o.drive(ctx, sessionID, run, req.OwnerID, log)
	if err != nil {
		if last == nil || !last.Status.Terminal() {
			o.cancelRun(ctx, sessionID, run.RunID, log)
		}
		log.Error("Falha na troca com o assistente", "error", err)
		return nil, err
	}

	return &ExchangeResult{
		Response:  answer,
		SessionID: sessionID,
		Replaced:  replaced,
	}, nil
}

// resolveSession decide qual sessão usar e quais mensagens precisam ser entregues
func (o *Orchestrator) resolveSession(ctx context.Context, req ExchangeRequest, log logger.Logger) (string, []Turn, bool, error) {
	if req.SessionID == "" {
		sessionID, err := o.remote.CreateSession(ctx)
		if err != nil {
			return "", nil, false, o.remoteError(ctx, err)
		}
		return sessionID, req.Turns, false, nil
	}

	exists, err := o.remote.SessionExists(ctx, req.SessionID)
	if err != nil {
		return "", nil, false, o.remoteError(ctx, err)
	}
	if exists {
		return req.SessionID, req.Turns[len(req.Turns)-1:], false, nil
	}

	log.Warn("Sessão remota expirada, criando uma nova", "session_id", req.SessionID)

	sessionID, err := o.remote.CreateSession(ctx)
	if err != nil {
		return "", nil, false, o.remoteError(ctx, err)
	}

	var history []Turn
	if req.History != nil {
		history, err = req.History(ctx)
		if err != nil {
			return "", nil, false, fmt.Errorf("erro ao carregar histórico da conversa: %w", err)
		}
	}

	replay := make([]Turn, 0, len(history)+len(req.Turns))
	replay = append(replay, history...)
	replay = append(replay, req.Turns...)
	return sessionID, replay, true, nil
}

// drive acompanha o run até a conclusão, atendendo as rodadas de chamadas de função
func (o *Orchestrator) drive(ctx context.Context, sessionID string, run *assistant.RunState, ownerID string, log logger.Logger) (string, *assistant.RunState, error) {
	state := run
	rounds := 0

	for {
		current, err := o.waitForRun(ctx, sessionID, state, log)
		if err != nil {
			return "", state, err
		}
		state = current

		switch state.Status {
		case assistant.StatusCompleted:
			answer, err := o.readAnswer(ctx, sessionID, state.RunID)
			return answer, state, err

		case assistant.StatusRequiresAction:
			rounds++
			if rounds > o.cfg.MaxToolRounds {
				return "", state, fmt.Errorf("%w: limite de %d rodadas de funções excedido", domain.ErrAIExchangeFailed, o.cfg.MaxToolRounds)
			}

			outputs, err := o.runTools(ctx, state.ToolCalls, ownerID, log)
			if err != nil {
				return "", state, err
			}

			next, err := o.remote.SubmitToolOutputs(ctx, sessionID, state.RunID, outputs)
			if err != nil {
				return "", state, o.remoteError(ctx, err)
			}
			state = next

		default:
			reason := state.LastError
			if reason == "" {
				reason = "sem detalhes"
			}
			return "", state, fmt.Errorf("%w: run terminou com status %s (%s)", domain.ErrAIExchangeFailed, state.Status, reason)
		}
	}
}

// waitForRun consulta o run com backoff até que ele saia dos estados pendentes
func (o *Orchestrator) waitForRun(ctx context.Context, sessionID string, state *assistant.RunState, log logger.Logger) (*assistant.RunState, error) {
	if !state.Status.Pending() {
		return state, nil
	}

	policy := backoff.WithContext(o.newBackOff(), ctx)

	op := func() (*assistant.RunState, error) {
		current, err := o.remote.GetRunStatus(ctx, sessionID, state.RunID)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if current.Status.Pending() {
			return nil, errRunPending
		}
		return current, nil
	}
	notify := func(_ error, next time.Duration) {
		log.Debug("Aguardando run", "next_check", next.String())
	}

	current, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, errRunPending) {
			return nil, fmt.Errorf("%w: run %s não terminou em %s", domain.ErrTimeout, state.RunID, o.cfg.MaxWait)
		}
		return nil, o.remoteError(ctx, err)
	}
	return current, nil
}

func (o *Orchestrator) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(o.cfg.Interval),
		backoff.WithMultiplier(o.cfg.Multiplier),
		backoff.WithMaxInterval(o.cfg.MaxInterval),
		backoff.WithMaxElapsedTime(o.cfg.MaxWait),
		backoff.WithRandomizationFactor(0),
	)
	if o.cfg.MaxAttempts > 0 {
		return backoff.WithMaxRetries(exp, o.cfg.MaxAttempts)
	}
	return exp
}

// runTools executa todas as chamadas pendentes, na ordem recebida
func (o *Orchestrator) runTools(ctx context.Context, calls []assistant.ToolCall, ownerID string, log logger.Logger) ([]assistant.ToolOutput, error) {
	outputs := make([]assistant.ToolOutput, 0, len(calls))

	for _, call := range calls {
		log.Info("Executando função solicitada pelo assistente", "tool", call.Name, "call_id", call.ID)

		res, err := o.tools.Dispatch(ctx, tools.Call{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: call.Arguments,
			OwnerID:   ownerID,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAIExchangeFailed, err)
		}

		outputs = append(outputs, assistant.ToolOutput{CallID: call.ID, Output: res.JSON()})
	}
	return outputs, nil
}

// readAnswer lê a mensagem mais recente do assistente produzida pelo run
func (o *Orchestrator) readAnswer(ctx context.Context, sessionID, runID string) (string, error) {
	msgs, err := o.remote.ListMessages(ctx, sessionID, string(domain.RoleAssistant), runID)
	if err != nil {
		return "", o.remoteError(ctx, err)
	}
	if len(msgs) == 0 || !msgs[0].HasText() {
		return "", domain.ErrEmptyResponse
	}
	return msgs[0].Text, nil
}

// cancelRun tenta cancelar um run abortado sem depender do contexto da requisição
func (o *Orchestrator) cancelRun(ctx context.Context, sessionID, runID string, log logger.Logger) {
	if !o.cfg.CancelRunOnAbort || runID == "" {
		return
	}

	cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelRunTimeout)
	defer cancel()

	if err := o.remote.CancelRun(cancelCtx, sessionID, runID); err != nil {
		log.Warn("Não foi possível cancelar o run", "error", err)
		return
	}
	log.Info("Run cancelado após falha na troca")
}

// remoteError classifica falhas de transporte e protocolo do assistente
func (o *Orchestrator) remoteError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", domain.ErrAIExchangeFailed, err)
}
