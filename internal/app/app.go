package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/artem-evko/docker-Linux/internal/config"
	"github.com/artem-evko/docker-Linux/internal/database"
	"github.com/artem-evko/docker-Linux/internal/health"
	"github.com/artem-evko/docker-Linux/internal/users"
)

// App holds all application services. It is built once by New, started with
// Start before serving traffic and released with Close.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Gateway     *database.Gateway
	UserService users.UserService
	Health      *health.Manager
}

// New opens the datastore and wires the services on top of it
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger.Info("Database configuration", databaseLogFields(cfg.Database)...)

	gateway, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewWithGateway(cfg, logger, gateway), nil
}

// databaseLogFields describes the selected backend only
func databaseLogFields(cfg config.DatabaseConfig) []zap.Field {
	fields := []zap.Field{zap.String("driver", cfg.Driver)}
	switch cfg.Driver {
	case config.DriverPostgres:
		fields = append(fields,
			zap.String("host", cfg.Postgres.Host),
			zap.Int("port", cfg.Postgres.Port),
			zap.String("database", cfg.Postgres.Database),
			zap.String("user", cfg.Postgres.User))
	case config.DriverSQLite:
		fields = append(fields, zap.String("sqlite_path", cfg.SQLite.Path))
	}
	return fields
}

// NewWithGateway wires the services on top of an already open gateway
func NewWithGateway(cfg *config.Config, logger *zap.Logger, gateway *database.Gateway) *App {
	userStore := users.NewUserStore()
	userService := users.NewUserService(gateway, userStore, logger)

	healthManager := health.NewManager(logger)
	healthManager.AddChecker(health.NewConfigChecker(cfg))
	healthManager.AddChecker(health.NewDatabaseChecker(gateway))

	return &App{
		Config:      cfg,
		Logger:      logger,
		Gateway:     gateway,
		UserService: userService,
		Health:      healthManager,
	}
}

// Start initializes the schema and runs the startup health checks
func (a *App) Start(ctx context.Context) error {
	if err := a.Gateway.Initialize(ctx, users.Models()...); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := a.Health.StartupHealthCheck(ctx); err != nil {
		return err
	}
	return nil
}

// Close releases the datastore
func (a *App) Close() error {
	if err := a.Gateway.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
