package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/linkly/internal/config"
	"github.com/sundayezeilo/linkly/internal/db/migrations"
	db "github.com/sundayezeilo/linkly/internal/db/sqlc"
	"github.com/sundayezeilo/linkly/internal/server"
	"github.com/sundayezeilo/linkly/internal/shortener"
	"github.com/sundayezeilo/linkly/internal/users"
	"github.com/sundayezeilo/linkly/sluggen"
)

// App holds the application dependencies and configuration.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DBPool *pgxpool.Pool
	Server *server.Server
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := NewLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"service", cfg.App.ServiceName,
		"env", cfg.App.Environment,
		"version", cfg.App.ServiceVersion,
	)

	if cfg.Database.MigrateOnStart {
		if err := migrate(cfg, logger); err != nil {
			return nil, err
		}
	}

	dbPool, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	srv, err := wire(cfg, logger, dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"short_id_encoding", cfg.Shortener.IDEncoding,
	)

	return &App{
		Config: cfg,
		Logger: logger,
		DBPool: dbPool,
		Server: srv,
	}, nil
}

// wire builds queries → repositories → services → handlers on top of pool.
func wire(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*server.Server, error) {
	idGen, err := sluggen.New(cfg.Shortener.IDEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to create short id generator: %w", err)
	}

	queries := db.New(pool)

	urlSvc := shortener.NewService(shortener.NewRepository(queries), &shortener.ServiceConfig{
		BaseURL:       cfg.Server.BaseURL,
		IDGenerator:   idGen,
		IDMaxAttempts: cfg.Shortener.IDMaxAttempts,
	})
	userSvc := users.NewService(users.NewRepository(queries, nil))

	return server.New(cfg, logger, server.Handlers{
		URLs:  shortener.NewHandler(shortener.HandlerConfig{Service: urlSvc, Logger: logger}),
		Users: users.NewHandler(users.HandlerConfig{Service: userSvc, Logger: logger}),
	}, pool), nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	return nil
}

// LoadEnv loads a .env file only in non-production environments.
func LoadEnv() {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
}

// NewLogger creates a JSON logger on stdout at the given level.
func NewLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

func migrate(cfg *config.Config, logger *slog.Logger) error {
	m, err := migrations.New(cfg.Database.URL(), logger)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("failed to close migrator", "error", err)
		}
	}()

	if err := m.Up(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
