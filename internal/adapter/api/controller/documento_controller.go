package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/dto"
	"github.com/hugohenrick/sumy-api/internal/domain/documento"
	"github.com/hugohenrick/sumy-api/pkg/auth"
	"github.com/hugohenrick/sumy-api/pkg/logger"
)

// DocumentoService gera e entrega os documentos do usuário
type DocumentoService interface {
	GenerateFromConversa(ctx context.Context, userID, conversaID string) (*documento.Documento, error)
	List(ctx context.Context, userID string) ([]*documento.Documento, error)
	Open(ctx context.Context, userID, id string) (*documento.Documento, io.ReadCloser, error)
}

// DocumentoController gerencia as requisições relacionadas aos documentos gerados
type DocumentoController struct {
	service DocumentoService
	logger  logger.Logger
}

// NewDocumentoController cria uma nova instância de DocumentoController
func NewDocumentoController(service DocumentoService, log logger.Logger) *DocumentoController {
	return &DocumentoController{
		service: service,
		logger:  log,
	}
}

// GerarWord gera um documento Word com as perguntas e respostas de uma conversa
// @Summary Gera documento da conversa
// @Description Gera um documento Word com as informações coletadas na conversa
// @Tags documentos
// @Produce json
// @Security Bearer
// @Param conversaId path string true "ID da conversa"
// @Success 201 {object} dto.DocumentoResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversas/{conversaId}/documento [post]
func (c *DocumentoController) GerarWord(ctx *gin.Context) {
	doc, err := c.service.GenerateFromConversa(ctx.Request.Context(), auth.CurrentUserID(ctx), ctx.Param("conversaId"))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao gerar documento Word", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToDocumentoResponse(doc))
}

// List lista os documentos do usuário autenticado
// @Summary Lista documentos
// @Tags documentos
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.DocumentoResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /documentos [get]
func (c *DocumentoController) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context(), auth.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar documentos", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDocumentoListResponse(list))
}

// Download envia o arquivo de um documento
// @Summary Baixa um documento
// @Tags documentos
// @Produce octet-stream
// @Security Bearer
// @Param id path string true "ID do documento"
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /documentos/{id}/download [get]
func (c *DocumentoController) Download(ctx *gin.Context) {
	doc, rc, err := c.service.Open(ctx.Request.Context(), auth.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao baixar documento", err)
		return
	}
	defer rc.Close()

	ctx.Header("Content-Type", doc.Format.ContentType())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	ctx.Status(http.StatusOK)

	if _, err := io.Copy(ctx.Writer, rc); err != nil {
		c.logger.Error("Erro ao enviar documento", "documento_id", doc.ID, "error", err)
	}
}
