package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"chatwithme/internal/api"
	"chatwithme/internal/config"
	"chatwithme/internal/database"
	"chatwithme/internal/llm"
	"chatwithme/internal/repository"
	"chatwithme/internal/retriever"
	"chatwithme/internal/service"
)

// App holds the wired application: the database handle and the HTTP server.
type App struct {
	DB     *sql.DB
	Server *http.Server
}

// NewApp wires the application from configuration: database, repository,
// LLM gateway, retriever, services, handlers and router.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	repo := repository.NewSQLiteRepository(db)
	gateway := llm.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayAPIKey)
	retr := retriever.New(repo, cfg.RetrieveTopK)
	notifier := service.NewSlogNotifier()

	conversationService := service.NewConversationService(repo, gateway, retr, notifier, cfg.DefaultModel)
	conversationService.LoadSessions(context.Background())
	modelService := service.NewModelService()

	conversationHandler := api.NewConversationHandler(conversationService, cfg.MaxUploadBytes)
	modelHandler := api.NewModelHandler(modelService)
	router := api.NewRouter(conversationHandler, modelHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Sends are bounded only by the gateway.
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server}, nil
}

// Run loads configuration, wires the application and serves HTTP until the
// server stops. It returns the process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
