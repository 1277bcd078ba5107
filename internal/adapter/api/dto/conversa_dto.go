package dto

import (
	"time"

	"github.com/hugohenrick/sumy-api/internal/domain/conversa"
)

// IniciarConversaRequest representa os dados para iniciar uma conversa
type IniciarConversaRequest struct {
	Secao string `json:"secao" binding:"required"`
}

// ResponderRequest representa a resposta do usuário à última pergunta do assistente
type ResponderRequest struct {
	Resposta string `json:"resposta" binding:"required"`
}

// EditarConversaRequest representa os dados para renomear uma conversa
type EditarConversaRequest struct {
	Secao string `json:"secao" binding:"required"`
}

// PerguntaResponse traz a próxima pergunta do assistente
type PerguntaResponse struct {
	Pergunta   string `json:"pergunta"`
	ConversaID string `json:"conversaId"`
}

// ConversaResponse representa uma conversa
type ConversaResponse struct {
	ID        string    `json:"id"`
	Secao     string    `json:"secao"`
	CreatedAt time.Time `json:"createdAt"`
}

// MensagemResponse representa uma mensagem da conversa
type MensagemResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversaMensagensResponse traz a conversa e suas mensagens em ordem cronológica
type ConversaMensagensResponse struct {
	Conversa  ConversaResponse   `json:"conversa"`
	Mensagens []MensagemResponse `json:"mensagens"`
}

// EditarConversaResponse confirma a alteração do nome da conversa
type EditarConversaResponse struct {
	ID      string `json:"id"`
	Secao   string `json:"secao"`
	Message string `json:"message"`
}

// ToConversaResponse converte uma conversa do domínio para DTO de resposta
func ToConversaResponse(c *conversa.Conversa) ConversaResponse {
	return ConversaResponse{
		ID:        c.ID,
		Secao:     c.Secao,
		CreatedAt: c.CreatedAt,
	}
}

// ToConversaListResponse converte uma lista de conversas
func ToConversaListResponse(list []*conversa.Conversa) []ConversaResponse {
	out := make([]ConversaResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToConversaResponse(c))
	}
	return out
}

// ToMensagensResponse converte as mensagens de uma conversa
func ToMensagensResponse(msgs []*conversa.Mensagem) []MensagemResponse {
	out := make([]MensagemResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MensagemResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
