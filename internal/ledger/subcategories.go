package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
)

// Subcategories suggests subcategories for category: the registered ones
// plus any already used by transactions in that category. An empty category
// covers all of them.
func (l *Ledger) Subcategories(ctx context.Context, category model.Category) ([]string, error) {
	custom, err := l.store.CustomSubcategories(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategories: %w", err)
	}

	names := append(custom, filter.Subcategories(l.transactions, string(category))...)
	slices.Sort(names)
	return slices.Compact(names), nil
}

// RegisterSubcategory adds a user-defined subcategory to category.
func (l *Ledger) RegisterSubcategory(ctx context.Context, category model.Category, name string) error {
	if !category.Known() {
		return common.NewValidationError("category", "unknown category "+string(category))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return common.NewValidationError("subcategory", "is required")
	}
	if err := l.store.RegisterSubcategory(ctx, category, name); err != nil {
		return fmt.Errorf("failed to register subcategory: %w", err)
	}
	return nil
}

// RemoveSubcategory forgets a registered subcategory. Transactions already
// using the name keep it, so it can still be suggested afterwards.
func (l *Ledger) RemoveSubcategory(ctx context.Context, category model.Category, name string) error {
	if err := l.store.DeleteSubcategory(ctx, category, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("failed to remove subcategory: %w", err)
	}
	return nil
}
