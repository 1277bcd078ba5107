package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/dto"
	"github.com/hugohenrick/sumy-api/internal/domain/conversa"
	"github.com/hugohenrick/sumy-api/internal/domain/documento"
	"github.com/hugohenrick/sumy-api/internal/domain/user"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/storage"
	"github.com/hugohenrick/sumy-api/pkg/tools"
)

// status usado quando o cliente desiste da requisição
const statusClientClosedRequest = 499

// errorStatus traduz os erros de domínio para status HTTP
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, conversa.ErrConversaNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, documento.ErrDocumentoNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return http.StatusNotFound, "Recurso não encontrado"

	case errors.Is(err, conversa.ErrForbidden),
		errors.Is(err, documento.ErrForbidden):
		return http.StatusForbidden, "Acesso negado"

	case errors.Is(err, conversa.ErrValidation),
		errors.Is(err, documento.ErrInvalidFormat),
		errors.Is(err, documento.ErrNoContent):
		return http.StatusBadRequest, "Requisição inválida"

	case errors.Is(err, conversa.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "O assistente não respondeu a tempo"

	case errors.Is(err, tools.ErrUnknownTool),
		errors.Is(err, conversa.ErrEmptyResponse),
		errors.Is(err, conversa.ErrAIExchangeFailed):
		return http.StatusBadGateway, "Erro ao processar sua mensagem com o assistente"

	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "Requisição cancelada"

	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

// respondError registra o erro e escreve a resposta padronizada
func respondError(ctx *gin.Context, log logger.Logger, operation string, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error(operation, "error", err, "path", ctx.FullPath())
	} else {
		log.Warn(operation, "error", err, "status", status)
	}
	ctx.AbortWithStatusJSON(status, dto.NewErrorResponse(status, message, err.Error()))
}
