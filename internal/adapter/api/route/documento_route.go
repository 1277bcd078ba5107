package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
)

// SetupDocumentoRoutes configura as rotas dos documentos gerados
func SetupDocumentoRoutes(router *gin.RouterGroup, documentoController *controller.DocumentoController) {
	documentoRouter := router.Group("/documentos")
	{
		documentoRouter.GET("", documentoController.List)
		documentoRouter.GET("/:id/download", documentoController.Download)
	}
}
