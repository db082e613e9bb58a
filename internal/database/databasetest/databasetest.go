// Package databasetest provides throwaway in-memory gateways for tests.
package databasetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem-evko/docker-Linux/internal/config"
	"github.com/artem-evko/docker-Linux/internal/database"
)

// Config returns a sqlite configuration pointing at a private in-memory database.
// A single connection keeps every session on the same database.
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:             config.DriverSQLite,
		MaxOpenConnections: 1,
		SQLite: config.SQLiteConfig{
			Path: fmt.Sprintf("file:test-%s?mode=memory&cache=shared", uuid.NewString()),
		},
	}
}

// New opens an in-memory gateway, creates the tables for models and closes
// the gateway when the test ends.
func New(t testing.TB, models ...interface{}) *database.Gateway {
	t.Helper()

	gw, err := database.Open(Config(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { gw.Close() })

	if err := gw.Initialize(context.Background(), models...); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	return gw
}
