package conversa

import "time"

// Role identifica o autor de uma mensagem
type Role string

// Papéis possíveis de uma mensagem
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid informa se o papel é conhecido
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Conversa representa uma conversa de um usuário com o assistente.
// ThreadID aponta para a sessão remota e só é nulo antes da primeira troca bem-sucedida.
type Conversa struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Secao     string    `json:"secao"`
	ThreadID  *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// HasThread informa se a conversa já possui uma sessão remota
func (c *Conversa) HasThread() bool {
	return c.ThreadID != nil && *c.ThreadID != ""
}

// Thread retorna o ponteiro de sessão ou vazio
func (c *Conversa) Thread() string {
	if c.ThreadID == nil {
		return ""
	}
	return *c.ThreadID
}

// OwnedBy verifica se a conversa pertence ao usuário
func (c *Conversa) OwnedBy(userID string) bool {
	return c.UserID == userID
}

// Mensagem é uma entrada do histórico de uma conversa.
// A ordem é dada por CreatedAt e, em caso de empate, por Seq.
type Mensagem struct {
	ID         string    `json:"id"`
	ConversaID string    `json:"conversa_id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Seq        int64     `json:"-"`
}
