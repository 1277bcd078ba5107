package conversa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	domain "github.com/hugohenrick/sumy-api/internal/domain/conversa"
	"github.com/hugohenrick/sumy-api/internal/domain/user"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/validation"
)

// tempo máximo da remoção de uma conversa cuja primeira troca falhou
const discardTimeout = 10 * time.Second

// Exchanger realiza uma troca completa com o assistente
type Exchanger interface {
	Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResult, error)
}

// TurnResult é o resultado de Start e Respond
type TurnResult struct {
	Conversa *domain.Conversa
	Reply    *domain.Mensagem
}

type startInput struct {
	Secao string `json:"secao" validate:"required,max=255"`
}

type respondInput struct {
	ConversaID string `json:"conversaId" validate:"required"`
	Resposta   string `json:"resposta" validate:"required,max=20000"`
}

type renameInput struct {
	ConversaID string `json:"conversaId" validate:"required"`
	Secao      string `json:"secao" validate:"required,max=255"`
}

// Service gerencia o ciclo de vida das conversas
type Service struct {
	repo      domain.Repository
	users     user.Repository
	exchanger Exchanger
	locks     *keyedLocker
	validate  *validator.Validate
	logger    logger.Logger
}

// NewService cria uma nova instância de Service
func NewService(repo domain.Repository, users user.Repository, exchanger Exchanger, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		exchanger: exchanger,
		locks:     newKeyedLocker(),
		validate:  validation.New(),
		logger:    log,
	}
}

// Start cria uma conversa, envia a mensagem de apresentação e grava a primeira resposta do assistente
func (s *Service) Start(ctx context.Context, userID, secao string) (*TurnResult, error) {
	in := startInput{Secao: strings.TrimSpace(secao)}
	if err := s.check(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := &domain.Conversa{UserID: u.ID, Secao: in.Secao}
	seed := &domain.Mensagem{Role: domain.RoleUser, Content: "O meu nome é " + u.Name}
	if err := s.repo.Create(ctx, c, seed); err != nil {
		return nil, err
	}

	log := s.logger.With("conversa_id", c.ID, "user_id", userID)
	log.Info("Conversa criada", "secao", c.Secao)

	unlock, err := s.locks.Lock(ctx, c.ID)
	if err != nil {
		s.discard(ctx, c.ID, log)
		return nil, err
	}
	defer unlock()

	res, err := s.exchanger.Exchange(ctx, ExchangeRequest{
		Turns:   []Turn{{Role: seed.Role, Content: seed.Content}},
		OwnerID: userID,
	})
	if err != nil {
		s.discard(ctx, c.ID, log)
		return nil, err
	}

	reply := &domain.Mensagem{Role: domain.RoleAssistant, Content: res.Response}
	if err := s.repo.SaveReply(ctx, c.ID, res.SessionID, reply); err != nil {
		s.discard(ctx, c.ID, log)
		return nil, err
	}

	c.ThreadID = &res.SessionID
	return &TurnResult{Conversa: c, Reply: reply}, nil
}

// Respond grava a mensagem do usuário, conduz a troca e grava a resposta do assistente.
// Chamadas para a mesma conversa são atendidas uma de cada vez, em ordem de chegada.
func (s *Service) Respond(ctx context.Context, userID, conversaID, resposta string) (*TurnResult, error) {
	in := respondInput{ConversaID: conversaID, Resposta: strings.TrimSpace(resposta)}
	if err := s.check(in); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, conversaID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.owned(ctx, userID, conversaID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Mensagem{ConversaID: c.ID, Role: domain.RoleUser, Content: in.Resposta}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	res, err := s.exchanger.Exchange(ctx, ExchangeRequest{
		Turns:     []Turn{{Role: msg.Role, Content: msg.Content}},
		SessionID: c.Thread(),
		OwnerID:   userID,
		History:   s.historyBefore(c.ID, msg.ID),
	})
	if err != nil {
		return nil, err
	}

	if res.Replaced {
		s.logger.Info("Sessão remota substituída", "conversa_id", c.ID, "session_id", res.SessionID)
	}

	reply := &domain.Mensagem{Role: domain.RoleAssistant, Content: res.Response}
	if err := s.repo.SaveReply(ctx, c.ID, res.SessionID, reply); err != nil {
		return nil, err
	}

	c.ThreadID = &res.SessionID
	return &TurnResult{Conversa: c, Reply: reply}, nil
}

// List lista as conversas do usuário, mais recentes primeiro
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Conversa, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get retorna uma conversa do usuário
func (s *Service) Get(ctx context.Context, userID, conversaID string) (*domain.Conversa, error) {
	return s.owned(ctx, userID, conversaID)
}

// Messages lista as mensagens de uma conversa do usuário em ordem cronológica
func (s *Service) Messages(ctx context.Context, userID, conversaID string) ([]*domain.Mensagem, error) {
	if _, err := s.owned(ctx, userID, conversaID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversaID)
}

// Rename altera o nome de uma conversa do usuário
func (s *Service) Rename(ctx context.Context, userID, conversaID, secao string) (*domain.Conversa, error) {
	in := renameInput{ConversaID: conversaID, Secao: strings.TrimSpace(secao)}
	if err := s.check(in); err != nil {
		return nil, err
	}

	c, err := s.owned(ctx, userID, conversaID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSecao(ctx, c.ID, in.Secao); err != nil {
		return nil, err
	}

	c.Secao = in.Secao
	return c, nil
}

// Delete remove uma conversa do usuário e todas as suas mensagens
func (s *Service) Delete(ctx context.Context, userID, conversaID string) error {
	unlock, err := s.locks.Lock(ctx, conversaID)
	if err != nil {
		return err
	}
	defer unlock()

	c, err := s.owned(ctx, userID, conversaID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}

	s.logger.Info("Conversa removida", "conversa_id", c.ID, "user_id", userID)
	return nil
}

// owned busca a conversa e confirma que pertence ao usuário
func (s *Service) owned(ctx context.Context, userID, conversaID string) (*domain.Conversa, error) {
	c, err := s.repo.FindByID(ctx, conversaID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// historyBefore carrega o histórico persistido sem a mensagem que acabou de ser gravada
func (s *Service) historyBefore(conversaID, excludeID string) HistoryLoader {
	return func(ctx context.Context) ([]Turn, error) {
		msgs, err := s.repo.ListMessages(ctx, conversaID)
		if err != nil {
			return nil, err
		}

		turns := make([]Turn, 0, len(msgs))
		for _, m := range msgs {
			if m.ID == excludeID {
				continue
			}
			turns = append(turns, Turn{Role: m.Role, Content: m.Content})
		}
		return turns, nil
	}
}

// discard remove a conversa cuja primeira troca não foi concluída
func (s *Service) discard(ctx context.Context, conversaID string, log logger.Logger) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	if err := s.repo.Delete(dctx, conversaID); err != nil && !errors.Is(err, domain.ErrConversaNotFound) {
		log.Error("Erro ao remover conversa incompleta", "error", err)
		return
	}
	log.Warn("Conversa removida após falha na primeira troca")
}

func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, validation.Message(err))
	}
	return nil
}
