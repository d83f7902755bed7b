// Package aggregate computes totals over transaction sets: monthly
// income/expense summaries and the grouped farming pivot.
package aggregate

import (
	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
)

// Summary holds the totals for one month.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
	Month    string
	Count    int
}

// Positive reports whether the month broke even or better.
func (s Summary) Positive() bool {
	return !s.Balance.IsNegative()
}

// Totals sums income and expenses over txns without any date restriction.
func Totals(txns []model.Transaction) Summary {
	s := Summary{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			s.Income = s.Income.Add(txn.Amount)
		case model.TypeExpense:
			s.Expenses = s.Expenses.Add(txn.Amount)
		default:
			continue
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// Summarize totals the transactions dated in the given YYYY-MM month.
func Summarize(txns []model.Transaction, month string) Summary {
	s := Totals(filter.ForMonth(txns, month))
	s.Month = month
	return s
}
