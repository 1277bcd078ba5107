package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/dto"
	"github.com/hugohenrick/sumy-api/internal/domain/user"
	"github.com/hugohenrick/sumy-api/pkg/auth"
	"github.com/hugohenrick/sumy-api/pkg/logger"
)

// UserController gerencia as requisições relacionadas aos usuários
type UserController struct {
	userRepository user.Repository
	logger         logger.Logger
}

// NewUserController cria uma nova instância de UserController
func NewUserController(userRepository user.Repository, log logger.Logger) *UserController {
	return &UserController{
		userRepository: userRepository,
		logger:         log,
	}
}

// Me retorna os dados do usuário autenticado
// @Summary Usuário autenticado
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	u, err := c.userRepository.FindByID(ctx.Request.Context(), auth.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao buscar usuário", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}
