package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite" // sqlite:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // database/sql driver "sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps snapshots as rows, newest last.
type SQLiteStore struct {
	db *sql.DB
	settings
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens the database at path, applies pending migrations and
// returns the store.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	if err := migrateUp(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close() //nolint:errcheck,gosec // pragma error takes precedence
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	s.db = db

	s.log.Debug(ctx, "sqlite snapshot store ready")
	return s, nil
}

func migrateUp(path string) error {
	dir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("access migrations: %w", err)
	}
	src, err := iofs.New(dir, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	normalized := filepath.ToSlash(path)
	if filepath.IsAbs(path) && normalized[0] != '/' {
		normalized = "/" + normalized
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+normalized)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close() //nolint:errcheck // migrations already applied or failed

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Save implements Store.Save. The insert and the pruning of old rows share
// one transaction.
func (s *SQLiteStore) Save(ctx context.Context, blob []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (taken_at, payload) VALUES (?, ?)`,
		time.Now().UnixNano(), blob,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		s.keep+1,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load implements Store.Load.
func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return blob, nil
}

// Count returns the number of stored generations.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// Close implements Store.Close.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
