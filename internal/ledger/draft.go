package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/service"
)

// PromoteNote starts a draft from a quick note. Type, amount and description
// come from the note; the date is today and payment defaults to cash. No
// state changes until the draft is committed.
func (l *Ledger) PromoteNote(id string) (model.Draft, error) {
	note, err := l.Note(id)
	if err != nil {
		return model.Draft{}, err
	}

	return model.Draft{
		Input: model.TransactionInput{
			Type:        note.Type,
			Amount:      note.Amount,
			Description: note.Description,
			PaymentMode: model.PaymentCash,
			Date:        l.Today(),
		},
		SourceNoteID: note.ID,
	}, nil
}

// EditDraft starts a draft from an existing transaction. A placeholder
// description is left blank so it is not edited as if the user typed it.
func (l *Ledger) EditDraft(id string) (model.Draft, error) {
	txn, err := l.Transaction(id)
	if err != nil {
		return model.Draft{}, err
	}
	in := txn.Input()
	if in.Description == model.DefaultDescription {
		in.Description = ""
	}
	return model.Draft{
		Input:               in,
		SourceTransactionID: txn.ID,
	}, nil
}

// Commit persists a draft. An edit draft updates its transaction. A note
// draft adds the transaction and removes the note in one write, so the note
// and its transaction never coexist. Any other draft is a plain add.
func (l *Ledger) Commit(ctx context.Context, d model.Draft) (model.Transaction, error) {
	switch {
	case d.IsEdit() && d.FromNote():
		return model.Transaction{}, common.NewValidationError("draft", "cannot both edit a transaction and complete a note")
	case d.IsEdit():
		return l.Update(ctx, d.SourceTransactionID, d.Input)
	case d.FromNote():
		return l.completeNote(ctx, d)
	default:
		return l.Add(ctx, d.Input)
	}
}

func (l *Ledger) completeNote(ctx context.Context, d model.Draft) (model.Transaction, error) {
	in := d.Input.Normalize()
	if err := in.Validate(); err != nil {
		return model.Transaction{}, err
	}

	i := l.noteIndex(d.SourceNoteID)
	if i < 0 {
		return model.Transaction{}, noteNotFound(d.SourceNoteID)
	}

	txn := l.newTransaction(in)
	txn.IsQuickEntry = true

	nextTxns := append(slices.Clone(l.transactions), txn)
	nextNotes := slices.Delete(slices.Clone(l.notes), i, i+1)
	if err := l.store.SaveAll(ctx, nextTxns, nextNotes); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to save completed note: %w", err)
	}
	l.transactions = nextTxns
	l.notes = nextNotes

	l.notifier.Notify(txn.Type.Label()+" added successfully!", service.SeveritySuccess)
	return txn, nil
}
