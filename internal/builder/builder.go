package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/databot-backend/internal/api"
	askapi "github.com/futig/databot-backend/internal/api/ask"
	"github.com/futig/databot-backend/internal/config"
	"github.com/futig/databot-backend/internal/ingester"
	"github.com/futig/databot-backend/internal/integration/llm"
	"github.com/futig/databot-backend/internal/pkg/formatter"
	"github.com/futig/databot-backend/internal/pkg/relevance"
	"github.com/futig/databot-backend/internal/pkg/validator"
	"github.com/futig/databot-backend/internal/repository"
	"github.com/futig/databot-backend/internal/telegram"
	"github.com/futig/databot-backend/internal/usecase/ask"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	askUC, err := buildAskUsecase(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Setup API handlers
	askHandler := askapi.NewHandler(askUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(askHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	askUC, err := buildAskUsecase(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, askUC, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// buildAskUsecase wires the document pipeline shared by both binaries.
func buildAskUsecase(cfg *config.Config, logger *zap.Logger) (*ask.AskUsecase, error) {
	// Initialize repositories
	loader := ingester.NewDocxLoader(cfg.DocsDir, logger)
	corpus := repository.NewCorpusMemory(loader, logger)
	sessions := repository.NewSessionMemory(logger)
	logger.Info("Repositories initialized", zap.String("docs_dir", cfg.DocsDir))

	// Initialize external service connectors (with mock support)
	var llmConnector ask.LLMConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the language model")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the language model")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	selector := relevance.NewSelector(logger)
	requestValidator := validator.NewValidator()
	formats := formatter.NewFactory()

	askUC := ask.NewUsecase(
		corpus,
		sessions,
		selector,
		llmConnector,
		requestValidator,
		formats,
		logger,
	)
	logger.Info("Use cases initialized")

	return askUC, nil
}

// setupLogger builds the application logger for the configured level.
func setupLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
