// Package storage provides the data persistence layer for khata.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
)

// Validation errors.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrEmptyString         = errors.New("string parameter cannot be empty")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidQuickNote    = errors.New("invalid quick note")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrSubcategoryNotFound = fmt.Errorf("subcategory %w", common.ErrNotFound)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions checks the storage-level invariants of a collection:
// every record has an id and ids are unique. Field-level rules belong to the
// ledger, since imported records may carry values outside the vocabulary.
func validateTransactions(transactions []model.Transaction) error {
	seen := make(map[string]struct{}, len(transactions))
	for i := range transactions {
		txn := &transactions[i]
		if strings.TrimSpace(txn.ID) == "" {
			return fmt.Errorf("transaction at index %d: %w: missing ID", i, ErrInvalidTransaction)
		}
		if _, dup := seen[txn.ID]; dup {
			return fmt.Errorf("transaction at index %d: %w: %s", i, ErrDuplicateID, txn.ID)
		}
		seen[txn.ID] = struct{}{}
	}
	return nil
}

// validateQuickNotes applies the same id rules to quick notes.
func validateQuickNotes(notes []model.QuickNote) error {
	seen := make(map[string]struct{}, len(notes))
	for i := range notes {
		note := &notes[i]
		if strings.TrimSpace(note.ID) == "" {
			return fmt.Errorf("quick note at index %d: %w: missing ID", i, ErrInvalidQuickNote)
		}
		if _, dup := seen[note.ID]; dup {
			return fmt.Errorf("quick note at index %d: %w: %s", i, ErrDuplicateID, note.ID)
		}
		seen[note.ID] = struct{}{}
	}
	return nil
}
