// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds free-text descriptions.
const MaxDescriptionLength = 200

// DefaultDescription stands in for a transaction saved without one.
const DefaultDescription = "No description"

// Transaction is a single income or expense entry.
type Transaction struct {
	Date           Date            `json:"date"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
	FarmingDetails *FarmingDetails `json:"farmingDetails,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	ID             string          `json:"id"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	Category       Category        `json:"category"`
	Subcategory    string          `json:"subcategory,omitempty"`
	PaymentMode    PaymentMode     `json:"paymentMode"`
	IsQuickEntry   bool            `json:"isQuickEntry,omitempty"`
}

// FarmingDetails carries produce metadata. It only exists on farming transactions.
type FarmingDetails struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     Unit            `json:"unit"`
	SaleType SaleType        `json:"saleType"`
	Comments string          `json:"comments,omitempty"`
}

// IsFarmingIncome reports whether the transaction takes part in farming summaries.
func (t Transaction) IsFarmingIncome() bool {
	return t.Category == CategoryFarming && t.Type == TypeIncome && t.FarmingDetails != nil
}

// Input returns the user-editable fields of t.
func (t Transaction) Input() TransactionInput {
	in := TransactionInput{
		Type:        t.Type,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Subcategory: t.Subcategory,
		PaymentMode: t.PaymentMode,
		Date:        t.Date,
	}
	if t.FarmingDetails != nil {
		fd := *t.FarmingDetails
		in.FarmingDetails = &fd
	}
	return in
}

// TransactionInput holds the fields a user supplies when adding or editing.
type TransactionInput struct {
	Date           Date
	FarmingDetails *FarmingDetails
	Amount         decimal.Decimal
	Type           TransactionType
	Description    string
	Category       Category
	Subcategory    string
	PaymentMode    PaymentMode
}

// Normalize trims free text, fills a blank description with
// DefaultDescription and drops farming details from non-farming input.
func (in TransactionInput) Normalize() TransactionInput {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		in.Description = DefaultDescription
	}
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	if in.Category != CategoryFarming {
		in.FarmingDetails = nil
	}
	if in.FarmingDetails != nil {
		fd := *in.FarmingDetails
		fd.Comments = strings.TrimSpace(fd.Comments)
		in.FarmingDetails = &fd
	}
	return in
}

// Validate checks required fields, positive amounts and the farming sub-record.
func (in TransactionInput) Validate() error {
	if in.Type == "" {
		return common.NewValidationError("type", "is required")
	}
	if !in.Type.Known() {
		return common.NewValidationError("type", "must be income or expense")
	}
	if !in.Amount.IsPositive() {
		return common.NewValidationError("amount", "must be greater than 0")
	}
	if in.Category == "" {
		return common.NewValidationError("category", "is required")
	}
	if !in.Category.ValidFor(in.Type) {
		return common.NewValidationError("category", "unknown "+string(in.Type)+" category "+string(in.Category))
	}
	if in.PaymentMode == "" {
		return common.NewValidationError("paymentMode", "is required")
	}
	if !in.PaymentMode.Known() {
		return common.NewValidationError("paymentMode", "must be cash or digital")
	}
	if in.Date.IsZero() {
		return common.NewValidationError("date", "is required")
	}
	if len(in.Description) > MaxDescriptionLength {
		return common.NewValidationError("description", "too long (max 200 characters)")
	}

	if in.Category == CategoryFarming {
		return in.validateFarming()
	}
	if in.FarmingDetails != nil {
		return common.NewValidationError("farmingDetails", "only allowed for farming transactions")
	}
	return nil
}

func (in TransactionInput) validateFarming() error {
	fd := in.FarmingDetails
	if fd == nil {
		return common.NewValidationError("farmingDetails", "required for farming transactions")
	}
	if !fd.Quantity.IsPositive() {
		return common.NewValidationError("quantity", "enter a valid quantity for farming transaction")
	}
	if fd.Unit == "" {
		return common.NewValidationError("unit", "select a unit for farming transaction")
	}
	if !fd.Unit.Known() {
		return common.NewValidationError("unit", "unknown unit "+string(fd.Unit))
	}
	if fd.SaleType == "" {
		return common.NewValidationError("saleType", "select a sale type for farming transaction")
	}
	if !fd.SaleType.Known() {
		return common.NewValidationError("saleType", "unknown sale type "+string(fd.SaleType))
	}
	return nil
}

// ApplyTo replaces every user-editable field of t with the input's values.
func (in TransactionInput) ApplyTo(t *Transaction) {
	t.Type = in.Type
	t.Description = in.Description
	t.Amount = in.Amount
	t.Category = in.Category
	t.Subcategory = in.Subcategory
	t.PaymentMode = in.PaymentMode
	t.Date = in.Date
	t.FarmingDetails = nil
	if in.FarmingDetails != nil {
		fd := *in.FarmingDetails
		t.FarmingDetails = &fd
	}
}
