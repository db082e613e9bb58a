package health

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Checker defines the interface for health checking components
type Checker interface {
	HealthCheck(ctx context.Context) error
	IsCritical() bool // Critical services block startup if unhealthy
	Name() string
}

// Manager runs the registered health checkers
type Manager struct {
	checkers []Checker
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewManager creates a new health manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		checkers: make([]Checker, 0),
		logger:   logger,
	}
}

// AddChecker adds a health checker to the manager
func (h *Manager) AddChecker(checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, checker)
}

// StartupHealthCheck performs critical health checks that must pass for startup
func (h *Manager) StartupHealthCheck(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var criticalFailures []error

	for _, checker := range h.checkers {
		err := checker.HealthCheck(ctx)
		if err != nil {
			if checker.IsCritical() {
				criticalFailures = append(criticalFailures, fmt.Errorf("%s: %w", checker.Name(), err))
				h.logger.Error("Critical service health check failed",
					zap.String("service", checker.Name()),
					zap.Error(err))
			} else {
				h.logger.Warn("Non-critical service health check failed",
					zap.String("service", checker.Name()),
					zap.Error(err))
			}
			continue
		}

		h.logger.Info("Service health check passed",
			zap.String("service", checker.Name()),
			zap.Bool("critical", checker.IsCritical()))
	}

	if len(criticalFailures) > 0 {
		return fmt.Errorf("critical services failed health check: %v", criticalFailures)
	}

	h.logger.Info("All critical services healthy", zap.Int("total_checks", len(h.checkers)))
	return nil
}

// Report is the outcome of a runtime health check
type Report struct {
	Healthy  bool
	Services map[string]error
}

// RuntimeHealthCheck runs every checker. The report is unhealthy only when a
// critical checker fails.
func (h *Manager) RuntimeHealthCheck(ctx context.Context) Report {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := Report{Healthy: true, Services: make(map[string]error, len(h.checkers))}
	for _, checker := range h.checkers {
		err := checker.HealthCheck(ctx)
		report.Services[checker.Name()] = err
		if err != nil && checker.IsCritical() {
			report.Healthy = false
		}
	}
	return report
}

// Pinger is anything that can verify its connection, such as *database.Gateway
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker checks database connectivity
type DatabaseChecker struct {
	db Pinger
}

// NewDatabaseChecker creates a database health checker
func NewDatabaseChecker(db Pinger) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

func (d *DatabaseChecker) HealthCheck(ctx context.Context) error {
	if d.db == nil {
		return fmt.Errorf("database is nil")
	}
	return d.db.Ping(ctx)
}

func (d *DatabaseChecker) IsCritical() bool {
	return true
}

func (d *DatabaseChecker) Name() string {
	return "database"
}

// Validator is a configuration that can check itself
type Validator interface {
	Validate() error
}

// ConfigChecker checks configuration validity
type ConfigChecker struct {
	config Validator
}

// NewConfigChecker creates a config health checker
func NewConfigChecker(config Validator) *ConfigChecker {
	return &ConfigChecker{config: config}
}

func (c *ConfigChecker) HealthCheck(ctx context.Context) error {
	if c.config == nil {
		return fmt.Errorf("configuration is nil")
	}
	return c.config.Validate()
}

func (c *ConfigChecker) IsCritical() bool {
	return true
}

func (c *ConfigChecker) Name() string {
	return "configuration"
}
