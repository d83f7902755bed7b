// Package service defines the interfaces shared between the ledger and its
// collaborators.
package service

import (
	"context"

	"github.com/Veraticus/khata/internal/model"
)

// Store defines the contract for our persistence layer. Both collections are
// stored whole; every save replaces the previous contents.
type Store interface {
	// Record operations
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	LoadQuickNotes(ctx context.Context) ([]model.QuickNote, error)
	SaveQuickNotes(ctx context.Context, notes []model.QuickNote) error
	// SaveAll writes both collections in a single database transaction.
	SaveAll(ctx context.Context, transactions []model.Transaction, notes []model.QuickNote) error

	// Subcategory registry
	RegisterSubcategory(ctx context.Context, category model.Category, name string) error
	CustomSubcategories(ctx context.Context, category model.Category) ([]string, error)
	DeleteSubcategory(ctx context.Context, category model.Category, name string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Severity classifies a user notification.
type Severity string

// Notification severities.
const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notifier delivers short status messages to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, severity Severity)

// Notify calls f.
func (f NotifierFunc) Notify(message string, severity Severity) {
	f(message, severity)
}

// Discard is a Notifier that drops every message.
var Discard Notifier = NotifierFunc(func(string, Severity) {})
