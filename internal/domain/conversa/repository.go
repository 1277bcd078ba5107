package conversa

import "context"

// Repository define a persistência de conversas e mensagens
type Repository interface {
	// Create cria a conversa e sua mensagem inicial na mesma transação
	Create(ctx context.Context, c *Conversa, seed *Mensagem) error

	// FindByID busca uma conversa pelo ID
	FindByID(ctx context.Context, id string) (*Conversa, error)

	// ListByUser lista as conversas de um usuário, mais recentes primeiro
	ListByUser(ctx context.Context, userID string) ([]*Conversa, error)

	// UpdateSecao altera o nome da conversa
	UpdateSecao(ctx context.Context, id, secao string) error

	// AppendMessage adiciona uma mensagem ao histórico
	AppendMessage(ctx context.Context, m *Mensagem) error

	// ListMessages lista as mensagens de uma conversa em ordem cronológica
	ListMessages(ctx context.Context, conversaID string) ([]*Mensagem, error)

	// SaveReply grava a resposta do assistente e atualiza o ponteiro de sessão na mesma transação
	SaveReply(ctx context.Context, conversaID, threadID string, reply *Mensagem) error

	// Delete remove as mensagens e a conversa na mesma transação
	Delete(ctx context.Context, id string) error
}
