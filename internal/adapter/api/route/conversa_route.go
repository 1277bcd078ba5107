package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
)

// SetupConversaRoutes configura as rotas das conversas com o assistente
func SetupConversaRoutes(router *gin.RouterGroup, conversaController *controller.ConversaController, documentoController *controller.DocumentoController) {
	conversaRouter := router.Group("/conversas")
	{
		conversaRouter.POST("/iniciar", conversaController.Iniciar)
		conversaRouter.POST("/:conversaId/responder", conversaController.Responder)
		conversaRouter.GET("", conversaController.List)
		conversaRouter.GET("/:conversaId/mensagens", conversaController.Mensagens)
		conversaRouter.PUT("/:conversaId/editar", conversaController.Editar)
		conversaRouter.DELETE("/:conversaId/deletar", conversaController.Deletar)

		// Documento Word gerado a partir da conversa
		conversaRouter.POST("/:conversaId/documento", documentoController.GerarWord)
	}
}
