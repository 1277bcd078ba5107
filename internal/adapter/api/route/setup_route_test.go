package route

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
	"github.com/stretchr/testify/assert"
)

func TestSetupRoutes_RegistersAndProtects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	SetupRoutes(router, "/api/v1", Controllers{
		Health:    controller.NewHealthController(nil),
		Auth:      &controller.AuthController{},
		User:      &controller.UserController{},
		Conversa:  &controller.ConversaController{},
		Documento: &controller.DocumentoController{},
	}, deny)

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /api/v1/health",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/users/me",
		"POST /api/v1/conversas/iniciar",
		"POST /api/v1/conversas/:conversaId/responder",
		"GET /api/v1/conversas",
		"GET /api/v1/conversas/:conversaId/mensagens",
		"PUT /api/v1/conversas/:conversaId/editar",
		"DELETE /api/v1/conversas/:conversaId/deletar",
		"POST /api/v1/conversas/:conversaId/documento",
		"GET /api/v1/documentos",
		"GET /api/v1/documentos/:id/download",
	} {
		assert.True(t, registered[want], want)
	}

	for _, path := range []string{"/api/v1/conversas", "/api/v1/documentos", "/api/v1/users/me"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
