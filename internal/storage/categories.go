package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/khata/internal/model"
)

// RegisterSubcategory records a user-defined subcategory for category.
// Registering an existing name is a no-op.
func (s *SQLiteStorage) RegisterSubcategory(ctx context.Context, category model.Category, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(string(category), "category"); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subcategories (category, name) VALUES (?, ?)`,
		string(category), name)
	if err != nil {
		return fmt.Errorf("failed to register subcategory: %w", err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		slog.Debug("registered subcategory", "category", category, "name", name)
	}
	return nil
}

// CustomSubcategories returns the registered subcategories for category,
// sorted by name. An empty category returns every registered name.
func (s *SQLiteStorage) CustomSubcategories(ctx context.Context, category model.Category) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT DISTINCT name FROM subcategories ORDER BY name`
	args := []any{}
	if category != "" {
		query = `SELECT name FROM subcategories WHERE category = ? ORDER BY name`
		args = append(args, string(category))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return names, nil
}

// DeleteSubcategory removes a registered subcategory. Transactions that use
// the name keep it.
func (s *SQLiteStorage) DeleteSubcategory(ctx context.Context, category model.Category, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM subcategories WHERE category = ? AND name = ?`,
		string(category), strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("subcategory %q in %s: %w", name, category, ErrSubcategoryNotFound)
	}
	return nil
}
