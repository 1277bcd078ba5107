package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/dto"
)

// Version é a versão publicada da API
const Version = "1.0.0"

// Pinger verifica a disponibilidade de uma dependência
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController informa o estado da API
type HealthController struct {
	db Pinger
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health verifica a API e o banco de dados
// @Summary Verifica a saúde da API
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Version: Version, Database: "ok"}
	status := http.StatusOK
	if err := c.db.Ping(pingCtx); err != nil {
		res.Status = "degraded"
		res.Database = err.Error()
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, res)
}
