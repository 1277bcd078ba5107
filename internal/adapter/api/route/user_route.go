package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
)

// SetupUserRoutes configura as rotas para usuários
func SetupUserRoutes(router *gin.RouterGroup, userController *controller.UserController) {
	userRouter := router.Group("/users")
	{
		userRouter.GET("/me", userController.Me)
	}
}
