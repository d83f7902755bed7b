package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Jot down quick notes to complete later",
		Long: `Quick notes capture an amount now and the details later. Completing a note
turns it into a full transaction and removes the note.`,
		Example: `  khata notes add expense 120 "tea stall"
  khata notes list
  khata notes complete <note-id> -c food
  khata notes delete <note-id>`,
	}

	cmd.AddCommand(addNoteCmd())
	cmd.AddCommand(listNotesCmd())
	cmd.AddCommand(deleteNoteCmd())
	cmd.AddCommand(completeNoteCmd())

	return cmd
}

func addNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <income|expense> <amount> [description...]",
		Short: "Add a quick note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteType, err := parseType(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return common.NewValidationError("amount", "enter a valid amount")
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			note, err := s.ledger.AddNote(cmd.Context(), model.NoteInput{
				Type:        noteType,
				Amount:      amount,
				Description: strings.Join(args[2:], " "),
			})
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("  %s %s", cli.SubtleStyle.Render("ID:"), cli.InfoStyle.Render(note.ID)))
			return nil
		},
	}
}

func listNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending quick notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			notes := s.ledger.Notes()
			if len(notes) == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("No quick notes."))
				return nil
			}
			printLine(cmd, cli.FormatTitle(fmt.Sprintf("%s %d pending notes", cli.NoteIcon, len(notes))))
			if err := cli.WriteNotes(cmd.OutOrStdout(), settings.CurrencySymbol, notes); err != nil {
				return fmt.Errorf("failed to write notes: %w", err)
			}
			return nil
		},
	}
}

func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a quick note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return reportNotFound(cmd, s.ledger.DeleteNote(cmd.Context(), args[0]))
		},
	}
}

func completeNoteCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "complete <note-id>",
		Short: "Turn a quick note into a transaction",
		Long: `Start a transaction from a quick note. Type, amount and description come
from the note, the date defaults to today and payment mode to cash. Supply
the rest with flags or answer prompts with --interactive. The note is removed
only once the transaction is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			draft, err := s.ledger.PromoteNote(args[0])
			if err != nil {
				return reportNotFound(cmd, err)
			}
			draft, err = flags.complete(cmd, s.ledger, draft)
			if err != nil {
				return err
			}

			txn, err := s.ledger.Commit(cmd.Context(), draft)
			if err != nil {
				return reportNotFound(cmd, err)
			}
			printCommitted(cmd, txn)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
