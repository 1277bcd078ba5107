package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Rotas públicas (não requerem autenticação)
		authRouter.POST("/register", authController.Register)
		authRouter.POST("/login", authController.Login)
	}
}
