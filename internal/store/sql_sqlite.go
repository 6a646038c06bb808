package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ashenlk/tenant-keeper/internal/config"
	"github.com/ashenlk/tenant-keeper/internal/logger"
)

// NewConnectSQLite opens a file-backed SQLite database for local and
// single-host deployments. Foreign keys are enabled explicitly; SQLite ships
// with them off.
//
// The connection pool is capped at one writer: SQLite serialises writes at
// the file level anyway, and a single connection avoids SQLITE_BUSY errors
// under the transactional price updates.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", cfg.DSN+"?_foreign_keys=on")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectSQLite").Str("path", cfg.DSN).Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		driver:             "sqlite3",
		logger:             log,
		errorClassificator: NewSQLiteErrorClassifier(),
	}, nil
}
