package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/khata/internal/export"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/service"
)

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Transactions int
	QuickNotes   int
	// NewIDs counts records that arrived without an id, or with one already
	// taken, and were given a fresh one.
	NewIDs int
}

// ImportBulk replaces all data with the contents of a JSON backup. A payload
// without a "transactions" array is rejected and nothing changes. Records
// are otherwise kept as they are, including values outside the known
// vocabularies.
func (l *Ledger) ImportBulk(ctx context.Context, data []byte) (ImportResult, error) {
	b, err := export.ParseImport(data)
	if err != nil {
		return ImportResult{}, err
	}
	return l.Replace(ctx, b.Transactions, b.QuickNotes)
}

// Replace swaps both collections wholesale.
func (l *Ledger) Replace(ctx context.Context, txns []model.Transaction, notes []model.QuickNote) (ImportResult, error) {
	txns, notes, fixed := l.assignIDs(txns, notes)

	if err := l.store.SaveAll(ctx, txns, notes); err != nil {
		return ImportResult{}, fmt.Errorf("failed to save imported data: %w", err)
	}
	l.transactions = txns
	l.notes = notes

	l.notifier.Notify("Data imported successfully!", service.SeveritySuccess)
	return ImportResult{
		Transactions: len(txns),
		QuickNotes:   len(notes),
		NewIDs:       fixed,
	}, nil
}

// Backup returns the current data as an export document.
func (l *Ledger) Backup() export.Backup {
	return export.NewBackup(l.Transactions(), l.Notes(), l.now())
}

// assignIDs copies the collections, giving a fresh id to every record whose
// id is blank or already used earlier in its collection.
func (l *Ledger) assignIDs(txns []model.Transaction, notes []model.QuickNote) ([]model.Transaction, []model.QuickNote, int) {
	fixed := 0

	outTxns := make([]model.Transaction, len(txns))
	seen := make(map[string]struct{}, len(txns))
	for i, txn := range txns {
		if _, dup := seen[txn.ID]; dup || strings.TrimSpace(txn.ID) == "" {
			txn.ID = l.newID()
			fixed++
		}
		seen[txn.ID] = struct{}{}
		outTxns[i] = txn
	}

	outNotes := make([]model.QuickNote, len(notes))
	seen = make(map[string]struct{}, len(notes))
	for i, note := range notes {
		if _, dup := seen[note.ID]; dup || strings.TrimSpace(note.ID) == "" {
			note.ID = l.newID()
			fixed++
		}
		seen[note.ID] = struct{}{}
		outNotes[i] = note
	}

	return outTxns, outNotes, fixed
}
