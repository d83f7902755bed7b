package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/service"
)

// ErrInjected is returned by MemoryStore when a failure was requested.
var ErrInjected = errors.New("injected storage failure")

var _ service.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory service.Store that counts writes and can be
// told to fail them.
type MemoryStore struct {
	subcategories map[model.Category][]string
	transactions  []model.Transaction
	notes         []model.QuickNote
	Writes        int
	FailWrites    bool
	mu            sync.Mutex
}

// NewMemoryStore returns a store pre-loaded with the given records.
func NewMemoryStore(txns []model.Transaction, notes []model.QuickNote) *MemoryStore {
	return &MemoryStore{
		transactions:  slices.Clone(txns),
		notes:         slices.Clone(notes),
		subcategories: make(map[model.Category][]string),
	}
}

// LoadTransactions implements service.Store.
func (m *MemoryStore) LoadTransactions(_ context.Context) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Transaction{}, m.transactions...), nil
}

// SaveTransactions implements service.Store.
func (m *MemoryStore) SaveTransactions(_ context.Context, txns []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.Writes++
	m.transactions = slices.Clone(txns)
	return nil
}

// LoadQuickNotes implements service.Store.
func (m *MemoryStore) LoadQuickNotes(_ context.Context) ([]model.QuickNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.QuickNote{}, m.notes...), nil
}

// SaveQuickNotes implements service.Store.
func (m *MemoryStore) SaveQuickNotes(_ context.Context, notes []model.QuickNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.Writes++
	m.notes = slices.Clone(notes)
	return nil
}

// SaveAll implements service.Store.
func (m *MemoryStore) SaveAll(_ context.Context, txns []model.Transaction, notes []model.QuickNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.Writes++
	m.transactions = slices.Clone(txns)
	m.notes = slices.Clone(notes)
	return nil
}

// RegisterSubcategory implements service.Store.
func (m *MemoryStore) RegisterSubcategory(_ context.Context, category model.Category, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	if !slices.Contains(m.subcategories[category], name) {
		m.subcategories[category] = append(m.subcategories[category], name)
	}
	return nil
}

// CustomSubcategories implements service.Store.
func (m *MemoryStore) CustomSubcategories(_ context.Context, category model.Category) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	if category == "" {
		for _, list := range m.subcategories {
			names = append(names, list...)
		}
	} else {
		names = append(names, m.subcategories[category]...)
	}
	sort.Strings(names)
	return slices.Compact(names), nil
}

// DeleteSubcategory implements service.Store.
func (m *MemoryStore) DeleteSubcategory(_ context.Context, category model.Category, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	i := slices.Index(m.subcategories[category], name)
	if i < 0 {
		return fmt.Errorf("subcategory %q in %s: %w", name, category, common.ErrNotFound)
	}
	m.subcategories[category] = slices.Delete(m.subcategories[category], i, i+1)
	return nil
}

// Migrate implements service.Store.
func (m *MemoryStore) Migrate(_ context.Context) error { return nil }

// Close implements service.Store.
func (m *MemoryStore) Close() error { return nil }

// Stored returns what was last written.
func (m *MemoryStore) Stored() ([]model.Transaction, []model.QuickNote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.transactions), slices.Clone(m.notes)
}
