package assistant

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// RunStatus é o conjunto fechado de estados de um run remoto
type RunStatus string

// Estados conhecidos de um run
const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusCancelling     RunStatus = "cancelling"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCompleted      RunStatus = "completed"
	StatusFailed         RunStatus = "failed"
	StatusCancelled      RunStatus = "cancelled"
	StatusExpired        RunStatus = "expired"
	StatusIncomplete     RunStatus = "incomplete"
)

// ParseRunStatus converte o status recebido do servidor, rejeitando valores desconhecidos
func ParseRunStatus(raw string) (RunStatus, bool) {
	s := RunStatus(raw)
	switch s {
	case StatusQueued, StatusInProgress, StatusCancelling, StatusRequiresAction,
		StatusCompleted, StatusFailed, StatusCancelled, StatusExpired, StatusIncomplete:
		return s, true
	}
	return "", false
}

// Pending indica que o run ainda está sendo processado
func (s RunStatus) Pending() bool {
	return s == StatusQueued || s == StatusInProgress || s == StatusCancelling
}

// Terminal indica que o run terminou e não muda mais
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusExpired, StatusIncomplete:
		return true
	}
	return false
}

// ToolCall é uma chamada de função solicitada pelo assistente
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolOutput é a resposta de uma chamada de função enviada de volta ao run
type ToolOutput struct {
	CallID string
	Output string
}

// RunState é o retrato de um run em um instante da consulta
type RunState struct {
	SessionID string
	RunID     string
	Status    RunStatus
	ToolCalls []ToolCall
	LastError string
}

// SessionMessage é uma mensagem lida da sessão remota.
// Text fica vazio quando o conteúdo não é texto.
type SessionMessage struct {
	ID   string
	Role string
	Text string
}

// HasText informa se a mensagem tem conteúdo textual
func (m SessionMessage) HasText() bool {
	return strings.TrimSpace(m.Text) != ""
}

// newRunState valida e converte a resposta do servidor
func newRunState(run openai.Run) (*RunState, error) {
	status, ok := ParseRunStatus(string(run.Status))
	if !ok {
		return nil, errors.Wrapf(ErrMalformedResponse, "status de run desconhecido %q", run.Status)
	}
	if run.ID == "" {
		return nil, errors.Wrap(ErrMalformedResponse, "run sem identificador")
	}

	state := &RunState{
		SessionID: run.ThreadID,
		RunID:     run.ID,
		Status:    status,
	}

	if run.LastError != nil {
		state.LastError = strings.TrimSpace(string(run.LastError.Code) + ": " + run.LastError.Message)
	}

	if status != StatusRequiresAction {
		return state, nil
	}

	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil ||
		len(run.RequiredAction.SubmitToolOutputs.ToolCalls) == 0 {
		return nil, errors.Wrap(ErrMalformedResponse, "run requer ação mas não informou chamadas de função")
	}

	for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		call, err := newToolCall(tc)
		if err != nil {
			return nil, err
		}
		state.ToolCalls = append(state.ToolCalls, call)
	}
	return state, nil
}

func newToolCall(tc openai.ToolCall) (ToolCall, error) {
	if tc.Type != "" && tc.Type != openai.ToolTypeFunction {
		return ToolCall{}, errors.Wrapf(ErrMalformedResponse, "tipo de chamada não suportado %q", tc.Type)
	}
	if tc.ID == "" || tc.Function.Name == "" {
		return ToolCall{}, errors.Wrap(ErrMalformedResponse, "chamada de função sem identificador ou nome")
	}

	args := strings.TrimSpace(tc.Function.Arguments)
	if args == "" {
		args = "{}"
	}
	if !json.Valid([]byte(args)) {
		return ToolCall{}, errors.Wrapf(ErrMalformedResponse, "argumentos inválidos para %s", tc.Function.Name)
	}

	return ToolCall{
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: json.RawMessage(args),
	}, nil
}
