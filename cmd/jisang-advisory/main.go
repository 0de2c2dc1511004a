package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jisang-advisory/internal/api"
	"jisang-advisory/internal/api/handlers"
	"jisang-advisory/internal/llm"
	"jisang-advisory/internal/service"
	"jisang-advisory/pkg/config"
	"jisang-advisory/pkg/logger"
	"jisang-advisory/pkg/retry"

	"go.uber.org/zap"
)

// @title Jisang Advisory API
// @version 1.0
// @description Fact-checked real-estate advisory reports and hybrid chat

// @host localhost:8080
// @BasePath /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.Logger.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting jisang-advisory service")

	ctx := context.Background()

	// Backend clients are best-effort: a backend that cannot be built is
	// skipped, and with zero backends the orchestrator still serves
	// fact-derived fallback narratives.
	backends, closers := buildBackends(ctx, cfg, appLogger)
	defer func() {
		for _, close := range closers {
			_ = close()
		}
	}()

	policy := retry.Policy{
		MaxAttempts: cfg.Inference.MaxAttempts,
		Schedule:    cfg.Inference.BackoffSchedule,
	}
	orchestrator := llm.NewOrchestrator(backends, policy, cfg.Inference.AttemptTimeout, appLogger)

	// Services
	factService := service.NewFactService(appLogger)
	scoreService := service.NewScoreService(appLogger)
	sessionService := service.NewSessionService()
	advisoryService := service.NewAdvisoryService(factService, orchestrator, scoreService, appLogger)
	chatService := service.NewChatService(orchestrator, sessionService, appLogger)

	// Handlers
	advisoryHandler := handlers.NewAdvisoryHandler(advisoryService, appLogger)
	chatHandler := handlers.NewChatHandler(advisoryService, chatService, sessionService, appLogger)

	app := api.SetupRouter(advisoryHandler, chatHandler, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

// buildBackends resolves the configured candidate list into live backends,
// preserving order.
func buildBackends(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) ([]llm.Generator, []func() error) {
	var (
		backends []llm.Generator
		closers  []func() error

		gigaClient   *llm.GigaChatClient
		geminiClient *llm.GeminiClient
	)

	for _, candidate := range cfg.Inference.Candidates {
		provider, model, found := strings.Cut(candidate, ":")
		if !found || model == "" {
			appLogger.Warn("Skipping malformed inference candidate", zap.String("candidate", candidate))
			continue
		}

		switch provider {
		case "gigachat":
			if gigaClient == nil {
				client, err := llm.NewGigaChatClient(ctx, &cfg.GigaChat, appLogger)
				if err != nil {
					appLogger.Warn("GigaChat backend unavailable", zap.Error(err))
					continue
				}
				gigaClient = client
				closers = append(closers, client.Close)
			}
			backends = append(backends, gigaClient.Backend(model))

		case "gemini":
			if geminiClient == nil {
				client, err := llm.NewGeminiClient(ctx, &cfg.Gemini, appLogger)
				if err != nil {
					appLogger.Warn("Gemini backend unavailable", zap.Error(err))
					continue
				}
				geminiClient = client
			}
			backends = append(backends, geminiClient.Backend(model))

		default:
			appLogger.Warn("Unknown inference provider", zap.String("candidate", candidate))
		}
	}

	appLogger.Info("Inference backends configured", zap.Int("count", len(backends)))
	return backends, closers
}
