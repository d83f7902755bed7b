// Package ledger holds the in-memory record store and implements the
// transaction lifecycle on top of a persistent service.Store.
//
// Every mutation builds the next version of a collection, hands it to the
// store, and only then swaps it in. A failed write therefore leaves both the
// in-memory and the persisted state as they were.
//
// A Ledger is not safe for concurrent use.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/service"
	"github.com/google/uuid"
)

// Ledger owns the transaction and quick note collections.
type Ledger struct {
	store        service.Store
	notifier     service.Notifier
	now          func() time.Time
	newID        func() string
	transactions []model.Transaction
	notes        []model.QuickNote
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sets where success messages go. The default drops them.
func WithNotifier(n service.Notifier) Option {
	return func(l *Ledger) {
		if n != nil {
			l.notifier = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		if newID != nil {
			l.newID = newID
		}
	}
}

// Open loads both collections from store.
func Open(ctx context.Context, store service.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    store,
		notifier: service.Discard,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}

	txns, err := store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	notes, err := store.LoadQuickNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quick notes: %w", err)
	}

	l.transactions = txns
	l.notes = notes
	common.LogDebug("Ledger loaded", common.Fields{"transactions": len(txns), "quick_notes": len(notes)})
	return l, nil
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Today returns the current calendar date.
func (l *Ledger) Today() model.Date {
	return model.DateOf(l.now())
}

// Transactions returns a copy of every transaction in insertion order.
func (l *Ledger) Transactions() []model.Transaction {
	return slices.Clone(l.transactions)
}

// Transaction returns the transaction with the given id.
func (l *Ledger) Transaction(id string) (model.Transaction, error) {
	i := l.transactionIndex(id)
	if i < 0 {
		return model.Transaction{}, transactionNotFound(id)
	}
	return l.transactions[i], nil
}

// Notes returns the quick notes, newest first.
func (l *Ledger) Notes() []model.QuickNote {
	notes := slices.Clone(l.notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes
}

// Note returns the quick note with the given id.
func (l *Ledger) Note(id string) (model.QuickNote, error) {
	i := l.noteIndex(id)
	if i < 0 {
		return model.QuickNote{}, noteNotFound(id)
	}
	return l.notes[i], nil
}

// Add validates in and appends a new transaction.
func (l *Ledger) Add(ctx context.Context, in model.TransactionInput) (model.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Transaction{}, err
	}

	txn := l.newTransaction(in)
	next := append(slices.Clone(l.transactions), txn)
	if err := l.commitTransactions(ctx, next); err != nil {
		return model.Transaction{}, err
	}

	l.notifier.Notify(txn.Type.Label()+" added successfully!", service.SeveritySuccess)
	return txn, nil
}

// AddMany validates every input and appends them in one write. Nothing is
// added if any input is invalid.
func (l *Ledger) AddMany(ctx context.Context, inputs []model.TransactionInput) ([]model.Transaction, error) {
	added := make([]model.Transaction, 0, len(inputs))
	for i, in := range inputs {
		in = in.Normalize()
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		added = append(added, l.newTransaction(in))
	}
	if len(added) == 0 {
		return added, nil
	}

	next := append(slices.Clone(l.transactions), added...)
	if err := l.commitTransactions(ctx, next); err != nil {
		return nil, err
	}

	l.notifier.Notify(fmt.Sprintf("Added %d transactions", len(added)), service.SeveritySuccess)
	return added, nil
}

// Update replaces the user fields of an existing transaction. The id and
// creation time are kept, the update time is stamped and the quick entry
// flag is cleared.
func (l *Ledger) Update(ctx context.Context, id string, in model.TransactionInput) (model.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Transaction{}, err
	}

	i := l.transactionIndex(id)
	if i < 0 {
		return model.Transaction{}, transactionNotFound(id)
	}

	txn := l.transactions[i]
	in.ApplyTo(&txn)
	updated := l.now().UTC()
	txn.UpdatedAt = &updated
	txn.IsQuickEntry = false

	next := slices.Clone(l.transactions)
	next[i] = txn
	if err := l.commitTransactions(ctx, next); err != nil {
		return model.Transaction{}, err
	}

	l.notifier.Notify("Transaction updated successfully!", service.SeveritySuccess)
	return txn, nil
}

// Delete removes the transaction with the given id.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	i := l.transactionIndex(id)
	if i < 0 {
		return transactionNotFound(id)
	}

	next := slices.Delete(slices.Clone(l.transactions), i, i+1)
	if err := l.commitTransactions(ctx, next); err != nil {
		return err
	}

	l.notifier.Notify("Transaction deleted successfully!", service.SeveritySuccess)
	return nil
}

// AddNote records a quick note.
func (l *Ledger) AddNote(ctx context.Context, in model.NoteInput) (model.QuickNote, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.QuickNote{}, err
	}

	note := model.QuickNote{
		ID:          l.newID(),
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		CreatedAt:   l.now().UTC(),
	}

	next := append(slices.Clone(l.notes), note)
	if err := l.store.SaveQuickNotes(ctx, next); err != nil {
		return model.QuickNote{}, fmt.Errorf("failed to save quick notes: %w", err)
	}
	l.notes = next

	l.notifier.Notify("Quick "+string(note.Type)+" note added!", service.SeveritySuccess)
	return note, nil
}

// DeleteNote removes the quick note with the given id.
func (l *Ledger) DeleteNote(ctx context.Context, id string) error {
	i := l.noteIndex(id)
	if i < 0 {
		return noteNotFound(id)
	}
	noteType := l.notes[i].Type

	next := slices.Delete(slices.Clone(l.notes), i, i+1)
	if err := l.store.SaveQuickNotes(ctx, next); err != nil {
		return fmt.Errorf("failed to save quick notes: %w", err)
	}
	l.notes = next

	l.notifier.Notify("Quick "+string(noteType)+" note deleted!", service.SeveritySuccess)
	return nil
}

// Clear removes every transaction and quick note.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.store.SaveAll(ctx, []model.Transaction{}, []model.QuickNote{}); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	common.LogInfo("Ledger cleared", common.Fields{"transactions": len(l.transactions), "quick_notes": len(l.notes)})
	l.transactions = []model.Transaction{}
	l.notes = []model.QuickNote{}

	l.notifier.Notify("All data cleared successfully!", service.SeveritySuccess)
	return nil
}

func (l *Ledger) newTransaction(in model.TransactionInput) model.Transaction {
	txn := model.Transaction{
		ID:        l.newID(),
		CreatedAt: l.now().UTC(),
	}
	in.ApplyTo(&txn)
	return txn
}

func (l *Ledger) commitTransactions(ctx context.Context, next []model.Transaction) error {
	if err := l.store.SaveTransactions(ctx, next); err != nil {
		common.LogError(err, "Transactions not saved", common.Fields{"count": len(next)})
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	l.transactions = next
	return nil
}

func (l *Ledger) transactionIndex(id string) int {
	return slices.IndexFunc(l.transactions, func(t model.Transaction) bool { return t.ID == id })
}

func (l *Ledger) noteIndex(id string) int {
	return slices.IndexFunc(l.notes, func(n model.QuickNote) bool { return n.ID == id })
}

func transactionNotFound(id string) error {
	return fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
}

func noteNotFound(id string) error {
	return fmt.Errorf("quick note %q: %w", id, common.ErrNotFound)
}
