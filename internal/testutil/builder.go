package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
)

// InputBuilder provides a fluent interface for constructing valid
// transaction inputs. It starts as a cash salary of 1000 dated 2024-11-05.
type InputBuilder struct {
	in model.TransactionInput
}

// NewInput returns a builder holding a valid income input.
func NewInput() *InputBuilder {
	return &InputBuilder{in: model.TransactionInput{
		Type:        model.TypeIncome,
		Description: "Salary",
		Amount:      decimal.NewFromInt(1000),
		Category:    model.CategorySalary,
		PaymentMode: model.PaymentCash,
		Date:        model.NewDate(2024, time.November, 5),
	}}
}

// Expense switches to an expense in category.
func (b *InputBuilder) Expense(category model.Category) *InputBuilder {
	b.in.Type = model.TypeExpense
	b.in.Category = category
	return b
}

// Income switches to an income in category.
func (b *InputBuilder) Income(category model.Category) *InputBuilder {
	b.in.Type = model.TypeIncome
	b.in.Category = category
	return b
}

// Amount sets the amount from a decimal string.
func (b *InputBuilder) Amount(s string) *InputBuilder {
	b.in.Amount = decimal.RequireFromString(s)
	return b
}

// On sets the date.
func (b *InputBuilder) On(year int, month time.Month, day int) *InputBuilder {
	b.in.Date = model.NewDate(year, month, day)
	return b
}

// Describe sets the description.
func (b *InputBuilder) Describe(s string) *InputBuilder {
	b.in.Description = s
	return b
}

// Sub sets the subcategory.
func (b *InputBuilder) Sub(s string) *InputBuilder {
	b.in.Subcategory = s
	return b
}

// Digital marks the input as paid digitally.
func (b *InputBuilder) Digital() *InputBuilder {
	b.in.PaymentMode = model.PaymentDigital
	return b
}

// Farming makes the input a farming income with the given produce details.
func (b *InputBuilder) Farming(subcategory, quantity string, unit model.Unit, sale model.SaleType) *InputBuilder {
	b.in.Type = model.TypeIncome
	b.in.Category = model.CategoryFarming
	b.in.Subcategory = subcategory
	b.in.FarmingDetails = &model.FarmingDetails{
		Quantity: decimal.RequireFromString(quantity),
		Unit:     unit,
		SaleType: sale,
	}
	return b
}

// Build returns the input.
func (b *InputBuilder) Build() model.TransactionInput {
	return b.in
}

// Transaction returns a stored transaction with the given id built from the
// input.
func (b *InputBuilder) Transaction(id string) model.Transaction {
	txn := model.Transaction{
		ID:        id,
		CreatedAt: time.Date(2024, time.November, 1, 12, 0, 0, 0, time.UTC),
	}
	b.in.ApplyTo(&txn)
	return txn
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
