package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/ledger"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/service"
	"github.com/Veraticus/khata/internal/storage"
	"github.com/spf13/cobra"
)

// session is an open database with the ledger loaded from it.
type session struct {
	store  *storage.SQLiteStorage
	ledger *ledger.Ledger
}

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		closeStore(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openSession opens storage and loads the ledger, reporting its
// notifications on the command's output.
func openSession(cmd *cobra.Command) (*session, error) {
	return openSessionWith(cmd, cli.NewNotifier(cmd.OutOrStdout()))
}

func openSessionWith(cmd *cobra.Command, notifier service.Notifier) (*session, error) {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	l, err := ledger.Open(ctx, store, ledger.WithNotifier(notifier))
	if err != nil {
		closeStore(store)
		return nil, err
	}

	return &session{store: store, ledger: l}, nil
}

func (s *session) Close() {
	closeStore(s.store)
}

// checkpoints returns a checkpoint manager honoring checkpoints.keep.
func (s *session) checkpoints() (*storage.CheckpointManager, error) {
	manager, err := s.store.NewCheckpointManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	manager.SetKeepAuto(settings.CheckpointsKeep)
	return manager, nil
}

// autoCheckpoint snapshots the database before a destructive operation.
func (s *session) autoCheckpoint(ctx context.Context, operation string) error {
	manager, err := s.checkpoints()
	if err != nil {
		return err
	}
	if err := manager.AutoCheckpoint(ctx, operation); err != nil {
		return fmt.Errorf("failed to create safety checkpoint: %w", err)
	}
	return nil
}

func closeStore(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// reportNotFound turns a missing record into a warning. Any other error is
// returned unchanged.
func reportNotFound(cmd *cobra.Command, err error) error {
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	printLine(cmd, cli.FormatWarning(model.Capitalize(err.Error())))
	return nil
}

func printLine(cmd *cobra.Command, line string) {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

// confirm asks question unless force is set.
func confirm(cmd *cobra.Command, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	ok, err := prompter.Confirm(cmd.Context(), question)
	if err != nil {
		return false, err
	}
	if !ok {
		printLine(cmd, cli.SubtitleStyle.Render("Cancelled."))
	}
	return ok, nil
}

func parseType(s string) (model.TransactionType, error) {
	t := model.TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Known() {
		return "", common.NewValidationError("type", "must be income or expense")
	}
	return t, nil
}
