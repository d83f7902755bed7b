package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/khata/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Storage keys for the two persisted collections.
const (
	TransactionsKey = "budgetTrackerTransactions"
	QuickNotesKey   = "budgetTrackerQuickNotes"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ service.Store = (*SQLiteStorage)(nil)

// SQLiteStorage implements service.Store on a SQLite key-value table.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens the database at dbPath, creating its directory if
// needed. File databases run in WAL mode with a busy timeout so a second khata
// process waits instead of failing. Call Migrate before use.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writes are serialized and :memory: survives between calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close releases the database. Closing twice is harmless.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// NewCheckpointManager creates a new checkpoint manager for this storage instance.
func (s *SQLiteStorage) NewCheckpointManager() (*CheckpointManager, error) {
	if s.dbPath == MemoryPath {
		return nil, errors.New("checkpoints require a file-backed database")
	}
	return NewCheckpointManager(s.db, s.dbPath)
}

// getValue returns the stored value for key, or ok=false when absent.
func getValue(ctx context.Context, q queryer, key string) (value string, ok bool, err error) {
	err = q.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func putValue(ctx context.Context, e execer, key, value string) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
