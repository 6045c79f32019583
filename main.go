package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/audit"
	"github.com/ledgermind/ledgermind-engine/pkg/config"
	"github.com/ledgermind/ledgermind-engine/pkg/database"
	"github.com/ledgermind/ledgermind-engine/pkg/embedder"
	"github.com/ledgermind/ledgermind-engine/pkg/handlers"
	"github.com/ledgermind/ledgermind-engine/pkg/llm"
	"github.com/ledgermind/ledgermind-engine/pkg/logging"
	enginemcp "github.com/ledgermind/ledgermind-engine/pkg/mcp"
	"github.com/ledgermind/ledgermind-engine/pkg/mcp/tools"
	"github.com/ledgermind/ledgermind-engine/pkg/middleware"
	"github.com/ledgermind/ledgermind-engine/pkg/repositories"
	"github.com/ledgermind/ledgermind-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	stdio := flag.Bool("stdio", false, "serve MCP over stdio and skip the HTTP listener")
	flag.Parse()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database_path", cfg.Database.Path),
		zap.String("memory_variant", cfg.Memory.Variant),
		zap.Bool("embedder_configured", cfg.Embedder.IsAvailable()),
		zap.Bool("summaries_configured", cfg.Anthropic.IsAvailable()),
	)

	if err := database.RunMigrations(cfg.Database.Path, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: time.Duration(cfg.Database.BusyTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	entityRepo := repositories.NewEntityRepository(db)
	observationRepo := repositories.NewObservationRepository(db)
	relationRepo := repositories.NewRelationRepository(db)
	summaryRepo := repositories.NewSummaryRepository(db)

	emb := buildEmbedder(cfg, logger)

	graphSvc := services.NewGraphService(entityRepo, observationRepo, relationRepo, summaryRepo, emb, logger)
	searchSvc := services.NewSearchService(entityRepo, observationRepo, emb, logger)
	graphMemory := services.NewGraphMemoryService(graphSvc, searchSvc)
	flatMemory := services.NewFlatMemoryService(graphSvc, searchSvc, logger)
	summarySvc := services.NewSummaryService(graphSvc, summaryRepo, buildLLMClient(cfg, logger), logger)

	auditor := audit.NewSecurityAuditor(logger)

	mcpServer := enginemcp.NewServer("ledgermind-engine", Version, logger)
	switch cfg.Memory.Variant {
	case config.VariantFlat:
		tools.RegisterFlatMemoryTools(mcpServer.MCP(), &tools.FlatToolDeps{
			Flat:    flatMemory,
			Auditor: auditor,
			Logger:  logger,
			UserID:  cfg.Memory.DefaultUserID,
		})
	default:
		tools.RegisterMemoryTools(mcpServer.MCP(), &tools.MemoryToolDeps{
			Memory:  graphMemory,
			Auditor: auditor,
			Logger:  logger,
			UserID:  cfg.Memory.DefaultUserID,
		})
	}

	if *stdio {
		logger.Info("Serving MCP over stdio", zap.String("variant", cfg.Memory.Variant))
		if err := mcpServer.ServeStdio(); err != nil {
			logger.Fatal("Stdio server failed", zap.Error(err))
		}
		return
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	memoryHandler := handlers.NewMemoryHandler(flatMemory, graphMemory, summarySvc, logger)
	memoryHandler.RegisterRoutes(mux)

	mux.Handle("/mcp", middleware.MCPRequestLogger(logger)(mcpServer.NewStreamableHTTPServer()))

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Starting ledgermind-engine",
			zap.String("addr", server.Addr),
			zap.String("version", Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}

// buildLogger selects the zap preset by environment. Logs go to stderr in
// both presets, which keeps stdout clean for the stdio MCP transport.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "test" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildEmbedder returns nil when no embedder is configured; the engine then
// runs lexical-only.
func buildEmbedder(cfg *config.Config, logger *zap.Logger) embedder.Embedder {
	if !cfg.Embedder.IsAvailable() {
		logger.Info("No embedder configured, search runs lexical-only")
		return nil
	}

	endpoint := config.ResolveEndpointForDocker(cfg.Embedder.Endpoint)
	emb, err := embedder.NewOpenAIEmbedder(&embedder.Config{
		Endpoint:   endpoint,
		Model:      cfg.Embedder.Model,
		APIKey:     cfg.Embedder.APIKey,
		Dimensions: cfg.Embedder.Dimensions,
		Timeout:    cfg.Embedder.Timeout(),
	}, logger)
	if err != nil {
		logger.Warn("Embedder unavailable, search runs lexical-only", zap.Error(err))
		return nil
	}

	logger.Info("Embedder configured",
		zap.String("endpoint", logging.SanitizeEndpoint(endpoint)),
		zap.String("model", cfg.Embedder.Model))
	return emb
}

// buildLLMClient returns nil when summaries are not configured; the summary
// service then rejects refresh requests.
func buildLLMClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	if !cfg.Anthropic.IsAvailable() {
		return nil
	}

	client, err := llm.NewAnthropicClient(&llm.Config{
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
	}, logger)
	if err != nil {
		logger.Warn("Summary generation unavailable", zap.Error(err))
		return nil
	}
	return client
}
