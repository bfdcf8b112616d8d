package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atlantix-inc/insight-engine/pkg/auth"
	"github.com/atlantix-inc/insight-engine/pkg/config"
	"github.com/atlantix-inc/insight-engine/pkg/database"
	"github.com/atlantix-inc/insight-engine/pkg/handlers"
	"github.com/atlantix-inc/insight-engine/pkg/llm"
	"github.com/atlantix-inc/insight-engine/pkg/logging"
	"github.com/atlantix-inc/insight-engine/pkg/middleware"
	"github.com/atlantix-inc/insight-engine/pkg/retry"
	"github.com/atlantix-inc/insight-engine/pkg/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Bool("llm_available", cfg.LLM.IsAvailable()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.Connect(ctx, cfg.Database.ConnectionString(), cfg.Database.MaxConnections)
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var assistant *llm.Assistant
	if cfg.LLM.IsAvailable() {
		client, err := llm.NewClient(&llm.Config{
			Endpoint:  cfg.LLM.Endpoint,
			Model:     cfg.LLM.Model,
			APIKey:    cfg.LLM.APIKey,
			Timeout:   cfg.LLM.Timeout(),
			MaxTokens: cfg.LLM.MaxTokens,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		assistant = llm.NewAssistant(client, logger)
	} else {
		logger.Warn("No LLM endpoint configured, slow path uses deterministic synthesis only")
	}

	executor := database.NewPgExecutor(db, logger)
	matcher := services.NewTemplateMatcher()
	charts := services.NewChartBuilder()
	pipeline := services.NewPipeline(
		services.NewClassifier(services.NewPeriodExtractor(nil)),
		matcher,
		services.NewSQLGenerator(),
		charts,
		services.NewResultCache(cfg.Cache.MaxEntries, 0, nil),
		executor,
		assistant,
		logger,
	)

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	api := http.NewServeMux()
	handlers.NewAnalyzeHandler(pipeline, logger).RegisterRoutes(api)
	handlers.NewSQLHandler(executor, charts, logger).RegisterRoutes(api)
	handlers.NewMetadataHandler(matcher, logger).RegisterRoutes(api)
	authMiddleware := auth.Middleware(jwksClient, cfg.Auth.EnableVerification, logger)
	mux.Handle("/api/", authMiddleware(api))

	handler := middleware.RequestID(middleware.RequestLogger(logger)(mux))

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting insight-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
