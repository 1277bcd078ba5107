package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/hugohenrick/sumy-api/docs"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/controller"
	"github.com/hugohenrick/sumy-api/internal/adapter/api/route"
	"github.com/hugohenrick/sumy-api/internal/adapter/repository"
	"github.com/hugohenrick/sumy-api/internal/config"
	"github.com/hugohenrick/sumy-api/internal/infrastructure/database"
	conversaservice "github.com/hugohenrick/sumy-api/internal/service/conversa"
	documentoservice "github.com/hugohenrick/sumy-api/internal/service/documento"
	"github.com/hugohenrick/sumy-api/pkg/assistant"
	"github.com/hugohenrick/sumy-api/pkg/auth"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/storage"
	"github.com/hugohenrick/sumy-api/pkg/tools"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// tempo para as requisições em andamento terminarem no desligamento
const shutdownTimeout = 30 * time.Second

// App representa a aplicação e suas dependências
type App struct {
	cfg    *config.Config
	logger logger.Logger
	db     *database.PostgresDB
	router *gin.Engine
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, err
		}
		log.Info("Migrações aplicadas")
	}

	db, err := database.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	app, err := buildApp(ctx, cfg, log, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func buildApp(ctx context.Context, cfg *config.Config, log logger.Logger, db *database.PostgresDB) (*App, error) {
	// Repositórios
	userRepo := repository.NewUserRepository(db.Pool())
	conversaRepo := repository.NewConversaRepository(db.Pool())
	documentoRepo := repository.NewDocumentoRepository(db.Pool())

	store, err := storage.NewLocal(cfg.Storage.Dir, cfg.Storage.PublicURL)
	if err != nil {
		return nil, err
	}
	documentoService := documentoservice.NewService(documentoRepo, conversaRepo, store, log)

	// Funções disponíveis para o assistente
	registry := tools.NewRegistry(log)
	if err := registry.Register(tools.NewExportTool(documentoService)); err != nil {
		return nil, err
	}

	client := assistant.NewClient(assistant.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		AssistantID: cfg.OpenAI.AssistantID,
		Model:       cfg.OpenAI.Model,
	})
	assistantID, err := client.EnsureAssistant(ctx, registry.AssistantTools())
	if err != nil {
		return nil, fmt.Errorf("erro ao configurar assistente: %w", err)
	}
	log.Info("Assistente configurado", "assistant_id", assistantID, "tools", registry.Names())

	orchestrator := conversaservice.NewOrchestrator(client, registry, cfg.Poll, log)
	conversaService := conversaservice.NewService(conversaRepo, userRepo, orchestrator, log)

	jwtService, err := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log), cors.New(corsConfig(cfg.CORS)))

	route.SetupRoutes(router, cfg.BasePath, route.Controllers{
		Health:    controller.NewHealthController(db),
		Auth:      controller.NewAuthController(userRepo, jwtService, log),
		User:      controller.NewUserController(userRepo, log),
		Conversa:  controller.NewConversaController(conversaService, log),
		Documento: controller.NewDocumentoController(documentoService, log),
	}, auth.JWTAuthMiddleware(jwtService))

	// Arquivos gerados e documentação
	router.Static("/files", cfg.Storage.Dir)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &App{
		cfg:    cfg,
		logger: log,
		db:     db,
		router: router,
	}, nil
}

// Run atende requisições até o contexto ser cancelado e então desliga o servidor
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Servidor iniciado", "port", a.cfg.Port, "base_path", a.cfg.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Desligando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro ao desligar servidor: %w", err)
	}
	return <-errCh
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
