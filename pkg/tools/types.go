package tools

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnknownTool ocorre quando o assistente solicita uma ferramenta não registrada
var ErrUnknownTool = errors.New("ferramenta desconhecida")

// Status do resultado de uma ferramenta
type Status string

// Valores possíveis de Status
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Call representa uma chamada de ferramenta feita pelo assistente
type Call struct {
	// ID da chamada no run remoto
	ID string

	// Nome da ferramenta
	Name string

	// Argumentos em JSON, como recebidos do assistente
	Arguments json.RawMessage

	// Usuário dono da conversa
	OwnerID string
}

// Result representa o resultado devolvido ao assistente
type Result struct {
	// Sucesso ou falha da operação
	Status Status `json:"status"`

	// Mensagem para o assistente
	Message string `json:"message"`

	// Dados adicionais (depende da ferramenta)
	Data map[string]any `json:"data"`
}

// Success cria um resultado de sucesso
func Success(message string, data map[string]any) *Result {
	return &Result{Status: StatusSuccess, Message: message, Data: data}
}

// Failure cria um resultado de erro
func Failure(message string) *Result {
	return &Result{Status: StatusError, Message: message}
}

// OK informa se o resultado é de sucesso
func (r *Result) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

// JSON serializa o resultado no formato enviado ao run
func (r *Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"status":"error","message":"falha ao serializar resultado","data":null}`
	}
	return string(b)
}

// Handler executa uma ferramenta com os argumentos já validados
type Handler func(ctx context.Context, call Call) (*Result, error)
