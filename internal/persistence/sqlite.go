package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go driver registered as "sqlite"
)

// SQLite wraps the embedded ticket database.
type SQLite struct {
	DB *sql.DB
}

type sqliteMigration struct {
	Version int
	Name    string
	SQL     string
}

var sqliteMigrations = []sqliteMigration{
	{
		Version: 1,
		Name:    "create tickets",
		SQL: `
			CREATE TABLE tickets (
				id                   INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at           TEXT NOT NULL,
				updated_at           TEXT NOT NULL,
				session_id           TEXT,
				user_email           TEXT,
				problem_summary      TEXT NOT NULL,
				conversation_summary TEXT,
				advice_given         TEXT,
				sentiment_score      REAL,
				sentiment_label      TEXT,
				status               TEXT NOT NULL DEFAULT 'open',
				priority             TEXT NOT NULL DEFAULT 'medium',
				source               TEXT NOT NULL DEFAULT 'manual',
				email_sent_at        TEXT
			);
			CREATE INDEX idx_tickets_session_id ON tickets (session_id);
			CREATE INDEX idx_tickets_status_created ON tickets (status, created_at);
		`,
	},
}

// OpenSQLite opens (or creates) the database at path and applies pending migrations.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	s := &SQLite{DB: db}
	if err := s.migrate(logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("sqlite ticket store opened", zap.String("path", path))
	return s, nil
}

func (s *SQLite) migrate(logger *zap.Logger) error {
	if _, err := s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	for _, m := range sqliteMigrations {
		var count int
		if err := s.DB.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&count); err != nil {
			return fmt.Errorf("checking migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		logger.Info("applying migration", zap.Int("version", m.Version), zap.String("name", m.Name))

		tx, err := s.DB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("sqlite not configured")
	}
	return s.DB.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
