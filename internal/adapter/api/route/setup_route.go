package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
)

// Controllers agrupa os controllers expostos pela API
type Controllers struct {
	Health    *controller.HealthController
	Auth      *controller.AuthController
	User      *controller.UserController
	Conversa  *controller.ConversaController
	Documento *controller.DocumentoController
}

// SetupRoutes registra todas as rotas sob o caminho base.
// As rotas de conversas e documentos passam pelo middleware de autenticação.
func SetupRoutes(router *gin.Engine, basePath string, controllers Controllers, authMiddleware gin.HandlerFunc) *gin.RouterGroup {
	api := router.Group(basePath)

	api.GET("/health", controllers.Health.Health)

	SetupAuthRoutes(api, controllers.Auth)

	protected := api.Group("")
	protected.Use(authMiddleware)

	SetupUserRoutes(protected, controllers.User)
	SetupConversaRoutes(protected, controllers.Conversa, controllers.Documento)
	SetupDocumentoRoutes(protected, controllers.Documento)

	return api
}
