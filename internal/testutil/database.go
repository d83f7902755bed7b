// Package testutil provides test doubles and fixtures shared by khata's
// package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/storage"
)

// TestDB wraps a migrated in-memory SQLite store.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	led, err := ledger.Open(ctx, db.Storage)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// Seed stores the given records, failing the test on error.
func (db *TestDB) Seed(txns []model.Transaction, notes []model.QuickNote) *TestDB {
	db.t.Helper()
	if err := db.Storage.SaveAll(context.Background(), txns, notes); err != nil {
		db.t.Fatalf("failed to seed records: %v", err)
	}
	return db
}
