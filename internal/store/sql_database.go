package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ashenlk/tenant-keeper/internal/config"
	"github.com/ashenlk/tenant-keeper/internal/logger"
)

// DB wraps the shared *sql.DB connection together with the error
// classificator matching the active driver.
type DB struct {
	*sql.DB
	driver             string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Driver returns the database/sql driver name the connection was opened with
// ("pgx" or "sqlite3"). Used to pick the goose migration dialect.
func (db *DB) Driver() string {
	return db.driver
}

// NewConnect opens the database connection described by cfg. PostgreSQL DSNs
// ("postgres://" or "postgresql://") select the pgx driver; any other value
// is treated as a SQLite file path for local deployments.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return NewConnectPostgres(ctx, cfg, log)
	}

	return NewConnectSQLite(ctx, cfg, log)
}
