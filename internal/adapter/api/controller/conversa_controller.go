package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/dto"
	"github.com/hugohenrick/sumy-api/internal/domain/conversa"
	conversaservice "github.com/hugohenrick/sumy-api/internal/service/conversa"
	"github.com/hugohenrick/sumy-api/pkg/auth"
	"github.com/hugohenrick/sumy-api/pkg/logger"
)

// ConversaService é o ciclo de vida das conversas usado pelo controller
type ConversaService interface {
	Start(ctx context.Context, userID, secao string) (*conversaservice.TurnResult, error)
	Respond(ctx context.Context, userID, conversaID, resposta string) (*conversaservice.TurnResult, error)
	List(ctx context.Context, userID string) ([]*conversa.Conversa, error)
	Get(ctx context.Context, userID, conversaID string) (*conversa.Conversa, error)
	Messages(ctx context.Context, userID, conversaID string) ([]*conversa.Mensagem, error)
	Rename(ctx context.Context, userID, conversaID, secao string) (*conversa.Conversa, error)
	Delete(ctx context.Context, userID, conversaID string) error
}

// ConversaController gerencia as requisições relacionadas às conversas
type ConversaController struct {
	service ConversaService
	logger  logger.Logger
}

// NewConversaController cria uma nova instância de ConversaController
func NewConversaController(service ConversaService, log logger.Logger) *ConversaController {
	return &ConversaController{
		service: service,
		logger:  log,
	}
}

// Iniciar inicia uma nova conversa com o assistente
// @Summary Inicia uma conversa
// @Description Cria a conversa, apresenta o usuário ao assistente e retorna a primeira pergunta
// @Tags conversas
// @Accept json
// @Produce json
// @Security Bearer
// @Param conversa body dto.IniciarConversaRequest true "Seção da especificação"
// @Success 200 {object} dto.PerguntaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /conversas/iniciar [post]
func (c *ConversaController) Iniciar(ctx *gin.Context) {
	var request dto.IniciarConversaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	res, err := c.service.Start(ctx.Request.Context(), auth.CurrentUserID(ctx), request.Secao)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao iniciar conversa", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PerguntaResponse{
		Pergunta:   res.Reply.Content,
		ConversaID: res.Conversa.ID,
	})
}

// Responder envia a resposta do usuário e retorna a próxima pergunta do assistente
// @Summary Responde a uma pergunta
// @Description Grava a resposta do usuário e retorna a próxima mensagem do assistente
// @Tags conversas
// @Accept json
// @Produce json
// @Security Bearer
// @Param conversaId path string true "ID da conversa"
// @Param resposta body dto.ResponderRequest true "Resposta do usuário"
// @Success 200 {object} dto.PerguntaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /conversas/{conversaId}/responder [post]
func (c *ConversaController) Responder(ctx *gin.Context) {
	var request dto.ResponderRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	conversaID := ctx.Param("conversaId")
	res, err := c.service.Respond(ctx.Request.Context(), auth.CurrentUserID(ctx), conversaID, request.Resposta)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao responder pergunta", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PerguntaResponse{
		Pergunta:   res.Reply.Content,
		ConversaID: res.Conversa.ID,
	})
}

// List lista as conversas do usuário autenticado
// @Summary Lista conversas
// @Description Lista as conversas do usuário, mais recentes primeiro
// @Tags conversas
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ConversaResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversas [get]
func (c *ConversaController) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context(), auth.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar conversas", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversaListResponse(list))
}

// Mensagens lista as mensagens de uma conversa
// @Summary Lista mensagens
// @Description Retorna a conversa e suas mensagens em ordem cronológica
// @Tags conversas
// @Produce json
// @Security Bearer
// @Param conversaId path string true "ID da conversa"
// @Success 200 {object} dto.ConversaMensagensResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversas/{conversaId}/mensagens [get]
func (c *ConversaController) Mensagens(ctx *gin.Context) {
	userID := auth.CurrentUserID(ctx)
	conversaID := ctx.Param("conversaId")

	conv, err := c.service.Get(ctx.Request.Context(), userID, conversaID)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar mensagens da conversa", err)
		return
	}

	msgs, err := c.service.Messages(ctx.Request.Context(), userID, conversaID)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar mensagens da conversa", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ConversaMensagensResponse{
		Conversa:  dto.ToConversaResponse(conv),
		Mensagens: dto.ToMensagensResponse(msgs),
	})
}

// Editar altera o nome de uma conversa
// @Summary Renomeia uma conversa
// @Tags conversas
// @Accept json
// @Produce json
// @Security Bearer
// @Param conversaId path string true "ID da conversa"
// @Param conversa body dto.EditarConversaRequest true "Novo nome"
// @Success 200 {object} dto.EditarConversaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversas/{conversaId}/editar [put]
func (c *ConversaController) Editar(ctx *gin.Context) {
	var request dto.EditarConversaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	conv, err := c.service.Rename(ctx.Request.Context(), auth.CurrentUserID(ctx), ctx.Param("conversaId"), request.Secao)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao editar nome da conversa", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EditarConversaResponse{
		ID:      conv.ID,
		Secao:   conv.Secao,
		Message: "Nome da conversa atualizado com sucesso.",
	})
}

// Deletar remove uma conversa e suas mensagens
// @Summary Remove uma conversa
// @Tags conversas
// @Produce json
// @Security Bearer
// @Param conversaId path string true "ID da conversa"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversas/{conversaId}/deletar [delete]
func (c *ConversaController) Deletar(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), auth.CurrentUserID(ctx), ctx.Param("conversaId")); err != nil {
		respondError(ctx, c.logger, "Erro ao deletar conversa", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Conversa e mensagens deletadas com sucesso.", nil))
}
