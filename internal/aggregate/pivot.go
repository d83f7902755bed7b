package aggregate

import (
	"strings"

	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
)

// Placeholder values used when a grouping field is empty.
const (
	NoSubcategory = "No Subcategory"
	NoUnit        = "No Unit"
)

// KeySeparator joins group key parts for display.
const KeySeparator = " | "

// Dimensions selects which fields the pivot groups by, in the fixed order
// month, subcategory, unit.
type Dimensions struct {
	Month       bool
	Subcategory bool
	Unit        bool
}

// AllDimensions groups by month, subcategory and unit.
var AllDimensions = Dimensions{Month: true, Subcategory: true, Unit: true}

// Names returns the column names of the active dimensions.
func (d Dimensions) Names() []string {
	var names []string
	if d.Month {
		names = append(names, "Month")
	}
	if d.Subcategory {
		names = append(names, "Subcategory")
	}
	if d.Unit {
		names = append(names, "Unit")
	}
	return names
}

// key builds the ordered tuple of active dimension values for txn.
func (d Dimensions) key(txn model.Transaction) []string {
	var key []string
	if d.Month {
		key = append(key, model.FormatMonth(txn.Date.MonthKey()))
	}
	if d.Subcategory {
		sub := txn.Subcategory
		if sub == "" {
			sub = NoSubcategory
		}
		key = append(key, sub)
	}
	if d.Unit {
		unit := NoUnit
		if txn.FarmingDetails != nil && txn.FarmingDetails.Unit != "" {
			unit = string(txn.FarmingDetails.Unit)
		}
		key = append(key, unit)
	}
	return key
}

// Group is one partition of the pivot.
type Group struct {
	TotalQuantity decimal.Decimal
	TotalAmount   decimal.Decimal
	Key           []string
	Transactions  []model.Transaction
}

// Label joins the key parts with " | ".
func (g Group) Label() string {
	return strings.Join(g.Key, KeySeparator)
}

// Count returns the number of transactions in the group.
func (g Group) Count() int {
	return len(g.Transactions)
}

// AverageRate is amount per unit of quantity, or zero when the group has no
// quantity.
func (g Group) AverageRate() decimal.Decimal {
	if !g.TotalQuantity.IsPositive() {
		return decimal.Zero
	}
	return g.TotalAmount.Div(g.TotalQuantity)
}

// Pivot partitions txns by the active dimensions. Groups appear in the order
// their key was first seen. With no active dimension every transaction lands
// in a single group with an empty key.
func Pivot(txns []model.Transaction, dims Dimensions) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, txn := range txns {
		key := dims.key(txn)
		// Key parts never contain NUL, so joining on it keeps tuples distinct.
		id := strings.Join(key, "\x00")

		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{
				Key:           key,
				TotalQuantity: decimal.Zero,
				TotalAmount:   decimal.Zero,
			})
		}

		g := &groups[i]
		g.Transactions = append(g.Transactions, txn)
		g.TotalAmount = g.TotalAmount.Add(txn.Amount)
		if txn.FarmingDetails != nil {
			g.TotalQuantity = g.TotalQuantity.Add(txn.FarmingDetails.Quantity)
		}
	}

	return groups
}

// FarmingIncome keeps the farming income transactions that carry farming
// details. It runs before any user filter in farming views.
func FarmingIncome(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.IsFarmingIncome() {
			out = append(out, txn)
		}
	}
	return out
}

// FarmingFilter narrows the farming view by month and subcategory.
type FarmingFilter struct {
	Month       string
	Subcategory string
}

// FarmingTransactions applies the farming pre-filter and then f.
func FarmingTransactions(txns []model.Transaction, f FarmingFilter) []model.Transaction {
	return filter.Apply(FarmingIncome(txns), filter.Spec{
		Month:       f.Month,
		Subcategory: f.Subcategory,
	})
}

// FarmingSummary is the farming pivot over txns after pre-filtering and f.
func FarmingSummary(txns []model.Transaction, f FarmingFilter, dims Dimensions) []Group {
	return Pivot(FarmingTransactions(txns, f), dims)
}
