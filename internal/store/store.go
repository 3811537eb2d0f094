// File path: internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrIntakeImmutable is returned when a write targets an intake that has
	// left the draft state.
	ErrIntakeImmutable = errors.New("intake no longer accepts changes")

	errNilStore = errors.New("store not initialised")
)

// Store wraps a pooled sqlx.DB connection to the SQLite catalog holding
// services, templates, intakes, and generated artifact records.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the SQLite database at the provided path.
// The schema is migrated on first use.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("store path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	pingTimeout := cfg.BusyTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureReady() error {
	if s == nil || s.db == nil {
		return errNilStore
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`PRAGMA foreign_keys = ON;`,
	`CREATE TABLE IF NOT EXISTS services (
                id TEXT PRIMARY KEY,
                name TEXT NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS templates (
                id TEXT PRIMARY KEY,
                name TEXT NOT NULL,
                blob_path TEXT NOT NULL,
                format TEXT NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS template_fields (
                template_id TEXT NOT NULL,
                position INTEGER NOT NULL,
                name TEXT NOT NULL,
                type_hint TEXT,
                label TEXT,
                PRIMARY KEY (template_id, position),
                FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS service_templates (
                service_id TEXT NOT NULL,
                template_id TEXT NOT NULL,
                position INTEGER NOT NULL,
                PRIMARY KEY (service_id, template_id),
                FOREIGN KEY(service_id) REFERENCES services(id) ON DELETE CASCADE,
                FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS intakes (
                id TEXT PRIMARY KEY,
                service_id TEXT NOT NULL,
                status TEXT NOT NULL DEFAULT 'draft',
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                submitted_at DATETIME,
                FOREIGN KEY(service_id) REFERENCES services(id)
        );`,
	`CREATE TABLE IF NOT EXISTS intake_data (
                intake_id TEXT NOT NULL,
                field TEXT NOT NULL,
                value TEXT NOT NULL,
                PRIMARY KEY (intake_id, field),
                FOREIGN KEY(intake_id) REFERENCES intakes(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS artifacts (
                id TEXT PRIMARY KEY,
                intake_id TEXT NOT NULL,
                template_id TEXT NOT NULL,
                blob_path TEXT NOT NULL,
                generated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                succeeded INTEGER NOT NULL DEFAULT 1,
                error_message TEXT NOT NULL DEFAULT '',
                FOREIGN KEY(intake_id) REFERENCES intakes(id),
                FOREIGN KEY(template_id) REFERENCES templates(id)
        );`,
	`CREATE INDEX IF NOT EXISTS idx_service_templates_position ON service_templates(service_id, position);`,
	`CREATE INDEX IF NOT EXISTS idx_intakes_service ON intakes(service_id);`,
	`CREATE INDEX IF NOT EXISTS idx_artifacts_intake ON artifacts(intake_id);`,
	`CREATE INDEX IF NOT EXISTS idx_artifacts_intake_template ON artifacts(intake_id, template_id);`,
}
