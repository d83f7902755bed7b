package model

import (
	"strings"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/shopspring/decimal"
)

// QuickNote is a pending income or expense memo that has not been turned
// into a full transaction yet.
type QuickNote struct {
	CreatedAt   time.Time       `json:"createdAt"`
	Amount      decimal.Decimal `json:"amount"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
}

// NoteInput holds the fields of a new quick note.
type NoteInput struct {
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
}

// Normalize trims the description and fills a blank one with "Quick
// expense" or "Quick income".
func (in NoteInput) Normalize() NoteInput {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		in.Description = "Quick " + string(in.Type)
	}
	return in
}

// Validate checks the note type and amount.
func (in NoteInput) Validate() error {
	if !in.Type.Known() {
		return common.NewValidationError("type", "must be income or expense")
	}
	if !in.Amount.IsPositive() {
		return common.NewValidationError("amount", "enter a valid amount")
	}
	if len(strings.TrimSpace(in.Description)) > MaxDescriptionLength {
		return common.NewValidationError("description", "too long (max 200 characters)")
	}
	return nil
}

// Draft is a transaction being composed before it is committed. A draft that
// came from a quick note deletes that note when committed; a draft that came
// from an existing transaction replaces it.
type Draft struct {
	Input               TransactionInput
	SourceNoteID        string
	SourceTransactionID string
}

// FromNote reports whether committing the draft completes a quick note.
func (d Draft) FromNote() bool {
	return d.SourceNoteID != ""
}

// IsEdit reports whether committing the draft updates an existing transaction.
func (d Draft) IsEdit() bool {
	return d.SourceTransactionID != ""
}
