// Package filter selects transactions by month, type, category and
// subcategory, and derives the choice lists the filters are built from.
package filter

import (
	"slices"
	"sort"
	"strings"

	"github.com/Veraticus/khata/internal/model"
)

// All disables a filter field.
const All = "all"

// Spec is a conjunction of optional predicates. Empty or "all" fields match
// everything.
type Spec struct {
	Month       string // YYYY-MM
	Type        string
	Category    string
	Subcategory string
}

// IsZero reports whether the spec filters nothing out.
func (s Spec) IsZero() bool {
	return !active(s.Month) && !active(s.Type) && !active(s.Category) && !active(s.Subcategory)
}

// Match reports whether txn satisfies every active predicate.
func (s Spec) Match(txn model.Transaction) bool {
	if active(s.Month) && !strings.HasPrefix(txn.Date.String(), s.Month) {
		return false
	}
	if active(s.Type) && string(txn.Type) != s.Type {
		return false
	}
	if active(s.Category) && string(txn.Category) != s.Category {
		return false
	}
	if active(s.Subcategory) && txn.Subcategory != s.Subcategory {
		return false
	}
	return true
}

// Apply returns the transactions matching spec, in their original order.
func Apply(txns []model.Transaction, spec Spec) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if spec.Match(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// ForMonth returns the transactions dated in the given YYYY-MM month.
func ForMonth(txns []model.Transaction, month string) []model.Transaction {
	return Apply(txns, Spec{Month: month})
}

// SortNewestFirst returns a copy of txns ordered by date, newest first. Equal
// dates keep their relative order.
func SortNewestFirst(txns []model.Transaction) []model.Transaction {
	out := slices.Clone(txns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// Categories returns the distinct categories in use, sorted.
func Categories(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	for _, txn := range txns {
		seen[string(txn.Category)] = struct{}{}
	}
	return sortedKeys(seen)
}

// Subcategories returns the distinct non-empty subcategories among
// transactions of the given category, or among all transactions when category
// is empty or "all".
func Subcategories(txns []model.Transaction, category string) []string {
	seen := make(map[string]struct{})
	for _, txn := range txns {
		if active(category) && string(txn.Category) != category {
			continue
		}
		if strings.TrimSpace(txn.Subcategory) == "" {
			continue
		}
		seen[txn.Subcategory] = struct{}{}
	}
	return sortedKeys(seen)
}

// Months returns the distinct YYYY-MM months present, newest first.
func Months(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	for _, txn := range txns {
		if key := txn.Date.MonthKey(); key != "" {
			seen[key] = struct{}{}
		}
	}
	months := sortedKeys(seen)
	slices.Reverse(months)
	return months
}

func active(v string) bool {
	return v != "" && v != All
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
