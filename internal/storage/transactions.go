package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/khata/internal/model"
)

// LoadTransactions returns the stored transactions. Missing or unreadable
// content yields an empty collection; unreadable content is logged.
func (s *SQLiteStorage) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadCollection[model.Transaction](ctx, s, TransactionsKey)
}

// SaveTransactions replaces the stored transactions.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	return s.save(ctx, TransactionsKey, nonNil(transactions))
}

// LoadQuickNotes returns the stored quick notes, empty when none are stored.
func (s *SQLiteStorage) LoadQuickNotes(ctx context.Context) ([]model.QuickNote, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadCollection[model.QuickNote](ctx, s, QuickNotesKey)
}

// SaveQuickNotes replaces the stored quick notes.
func (s *SQLiteStorage) SaveQuickNotes(ctx context.Context, notes []model.QuickNote) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateQuickNotes(notes); err != nil {
		return err
	}
	return s.save(ctx, QuickNotesKey, nonNil(notes))
}

// SaveAll replaces both collections atomically.
func (s *SQLiteStorage) SaveAll(ctx context.Context, transactions []model.Transaction, notes []model.QuickNote) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	if err := validateQuickNotes(notes); err != nil {
		return err
	}

	txnsJSON, err := json.Marshal(nonNil(transactions))
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	notesJSON, err := json.Marshal(nonNil(notes))
	if err != nil {
		return fmt.Errorf("failed to encode quick notes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := putValue(ctx, tx, TransactionsKey, string(txnsJSON)); err != nil {
		return err
	}
	if err := putValue(ctx, tx, QuickNotesKey, string(notesJSON)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Debug("saved records",
		"transactions", len(transactions),
		"quick_notes", len(notes))
	return nil
}

func loadCollection[T any](ctx context.Context, s *SQLiteStorage, key string) ([]T, error) {
	raw, ok, err := getValue(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("stored records are unreadable, starting empty",
			"key", key,
			"error", err)
		return []T{}, nil
	}
	return nonNil(items), nil
}

func (s *SQLiteStorage) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := putValue(ctx, s.db, key, string(data)); err != nil {
		return err
	}
	slog.Debug("saved records", "key", key, "bytes", len(data))
	return nil
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
