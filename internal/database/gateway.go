package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/schema"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/artem-evko/docker-Linux/internal/config"
)

// database/sql driver name registered by modernc.org/sqlite
const sqliteDriverName = "sqlite"

// SessionFunc is a unit of work executed against a scoped session.
// The session must not be used after the function returns.
type SessionFunc func(ctx context.Context, sess bun.IDB) error

// Gateway owns the connection pool and hands out scoped sessions
type Gateway struct {
	db     *bun.DB
	driver string
	logger *zap.Logger
}

// Open connects to the configured datastore and verifies the connection
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Gateway, error) {
	var (
		sqldb   *sql.DB
		dialect schema.Dialect
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		sqldb = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN())))
		dialect = pgdialect.New()
	case config.DriverSQLite:
		var err error
		sqldb, err = sql.Open(sqliteDriverName, cfg.SQLite.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		dialect = sqlitedialect.New()
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	maxConnections := cfg.MaxOpenConnections
	if maxConnections <= 0 {
		maxConnections = 10
	}
	// an in-memory sqlite database is dropped with its last connection, so it
	// gets exactly one that is never idled out or recycled
	inMemory := cfg.Driver == config.DriverSQLite && cfg.SQLite.InMemory()
	if inMemory {
		maxConnections = 1
	}
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(max(maxConnections/2, 1))
	if !inMemory {
		sqldb.SetConnMaxLifetime(time.Hour)
	}

	db := bun.NewDB(sqldb, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("driver", cfg.Driver),
		zap.Int("max_open_connections", maxConnections),
		zap.Bool("in_memory", inMemory))

	return &Gateway{
		db:     db,
		driver: cfg.Driver,
		logger: logger,
	}, nil
}

// Initialize creates the tables for the given models if they do not exist yet.
// Safe to call on every startup.
func (g *Gateway) Initialize(ctx context.Context, models ...interface{}) error {
	for _, model := range models {
		_, err := g.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", model, err)
		}
	}

	g.logger.Info("Database schema initialized", zap.Int("tables", len(models)))
	return nil
}

// ReadSession runs fn on a dedicated pooled connection.
// The connection is returned to the pool on every exit path.
func (g *Gateway) ReadSession(ctx context.Context, fn SessionFunc) error {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire session: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			g.logger.Warn("Failed to release session", zap.Error(cerr))
		}
	}()

	return fn(ctx, &conn)
}

// WriteSession runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when it returns an error or panics.
func (g *Gateway) WriteSession(ctx context.Context, fn SessionFunc) error {
	return g.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &tx)
	})
}

// Ping verifies the datastore is reachable
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

// Driver returns the configured driver name
func (g *Gateway) Driver() string {
	return g.driver
}

// DB exposes the underlying bun handle
func (g *Gateway) DB() *bun.DB {
	return g.db
}

func (g *Gateway) Close() error {
	return g.db.Close()
}
