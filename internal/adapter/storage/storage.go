package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

type SQLDB struct {
	*sql.DB
}

// NewSQLDB opens the SQLite file at path, creating it if absent.
// WAL mode allows reads while a write is in flight; a single open
// connection avoids SQLITE_BUSY between our own writers.
func NewSQLDB(ctx context.Context, path string) (SQLDB, error) {
	const op = "SQLDB"
	log := slog.With("op", op)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w", op, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := SQLDB{db}
	if err := s.PingContext(ctx); err != nil {
		return SQLDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := s.ExecContext(ctx, pragma); err != nil {
			return SQLDB{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("database is available", "path", path)
	return s, nil
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
