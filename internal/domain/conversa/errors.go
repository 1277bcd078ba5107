package conversa

import "errors"

// Erros do domínio de conversas
var (
	// ErrConversaNotFound ocorre quando a conversa não existe
	ErrConversaNotFound = errors.New("conversa não encontrada")

	// ErrForbidden ocorre quando a conversa pertence a outro usuário
	ErrForbidden = errors.New("você não tem permissão para acessar esta conversa")

	// ErrValidation indica dados de entrada inválidos
	ErrValidation = errors.New("dados inválidos")

	// ErrAIExchangeFailed indica falha de transporte ou protocolo com o assistente remoto
	ErrAIExchangeFailed = errors.New("erro ao processar sua mensagem com o assistente")

	// ErrEmptyResponse indica que o assistente não produziu uma resposta em texto
	ErrEmptyResponse = errors.New("nenhuma resposta do assistente foi recebida")

	// ErrTimeout indica que o run não terminou dentro do limite de espera
	ErrTimeout = errors.New("tempo de espera pela resposta do assistente esgotado")
)
