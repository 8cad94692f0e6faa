// Package server assembles configuration, storage, providers, and HTTP
// routes into a runnable engine.
package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/analyses"
	"resume-pipeline/internal/analytics"
	"resume-pipeline/internal/config"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/llm/anthropic"
	"resume-pipeline/internal/llm/gemini"
	"resume-pipeline/internal/llm/openai"
	"resume-pipeline/internal/recommend"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/server/middleware"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/storage/db"
	"resume-pipeline/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(ctx context.Context, cfg *config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigins),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(ctx, dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn.Close()
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var analysisRepo analyses.Repo
	if sqlDB != nil {
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		analysisRepo = analyses.NewMemoryRepo()
	}
	var analyticsSvc *analytics.Service
	if sqlDB != nil {
		analyticsSvc = analytics.NewServiceWithStore(analytics.NewPGStore(sqlDB))
	} else {
		analyticsSvc = analytics.NewService()
	}

	catalog, err := recommend.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	engine := recommend.NewEngine(catalog)

	providers := buildProviders(ctx, cfg)
	orchestrator := analyses.NewOrchestrator(providers, analyses.OrchestratorConfig{
		MaxRetries:      cfg.MaxRetries,
		BaseDelay:       time.Duration(cfg.BaseDelayMs) * time.Millisecond,
		PipelineTimeout: time.Duration(cfg.PipelineTimeoutSeconds) * time.Second,
	})

	pipelineSvc := &analyses.Service{
		Extractor:      extract.New(cfg.MinContentWords),
		Orchestrator:   orchestrator,
		Repo:           analysisRepo,
		Analytics:      analyticsSvc,
		Recommender:    engine,
		RecommendLimit: cfg.RecommendLimit,
	}

	analysisHandler := analyses.NewHandler(pipelineSvc, cfg.MaxUploadBytes)
	analyticsHandler := analytics.NewHandler(analyticsSvc)
	recommendHandler := recommend.NewHandler(engine)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	analysisHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)
	recommendHandler.RegisterRoutes(api)

	return r, nil
}

// buildProviders turns the configured chain into clients, preserving order.
// A misconfigured entry is skipped so one bad key does not take the whole
// service down.
func buildProviders(ctx context.Context, cfg *config.Config) []llm.Client {
	providers := make([]llm.Client, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		timeout := time.Duration(cfg.CallTimeoutSeconds) * time.Second
		var (
			client llm.Client
			err    error
		)
		switch p.ID {
		case "anthropic":
			client, err = anthropic.New(anthropic.Config{
				ID: p.ID, APIKey: p.APIKey, Model: p.Model,
				Endpoint: p.Endpoint, MaxTokens: p.MaxTokens, Timeout: timeout,
			})
		case "gemini":
			client, err = gemini.New(ctx, gemini.Config{
				ID: p.ID, APIKey: p.APIKey, Model: p.Model,
				MaxTokens: p.MaxTokens, Timeout: timeout,
			})
		case "openai", "":
			client, err = openai.New(openai.Config{
				ID: p.ID, APIKey: p.APIKey, Model: p.Model,
				Endpoint: p.Endpoint, MaxTokens: p.MaxTokens, Timeout: timeout,
			})
		default:
			telemetry.Warn("provider.unknown", map[string]any{"provider": p.ID})
			continue
		}
		if err != nil {
			telemetry.Warn("provider.skipped", map[string]any{
				"provider": p.ID,
				"error":    err.Error(),
			})
			continue
		}
		providers = append(providers, client)
	}
	if len(providers) == 0 {
		telemetry.Warn("provider.none_configured", map[string]any{})
	}
	return providers
}

// Addr normalizes the listen address.
func Addr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	if addr[0] == ':' {
		return addr
	}
	return ":" + addr
}
