package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/ofx"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup or bank statements",
		Long: `Restore a JSON backup (replacing all data) or append transactions from
OFX/QFX bank statements. A safety checkpoint is taken first.`,
	}

	cmd.AddCommand(importJSONCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importJSONCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "json <file>",
		Short: "Replace all data with a JSON backup",
		Long: `Replace every transaction and quick note with the contents of a backup made
by 'khata export json'. Use "-" to read from stdin. A file without a
"transactions" array is rejected and nothing changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == stdoutPath && !force {
				return common.NewUserError("reading a backup from stdin requires --force", nil)
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			question := fmt.Sprintf("Replace %d transactions and %d quick notes with the contents of %s?",
				len(s.ledger.Transactions()), len(s.ledger.Notes()), args[0])
			ok, err := confirm(cmd, force, question)
			if err != nil || !ok {
				return err
			}

			if err := s.autoCheckpoint(cmd.Context(), "import"); err != nil {
				return err
			}

			result, err := s.ledger.ImportBulk(cmd.Context(), data)
			if err != nil {
				return err
			}

			printLine(cmd, fmt.Sprintf("  %d transactions, %d quick notes", result.Transactions, result.QuickNotes))
			if result.NewIDs > 0 {
				printLine(cmd, cli.FormatInfo(fmt.Sprintf("%d records were given new ids", result.NewIDs)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func importOFXCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ofx <files...>",
		Short: "Append transactions from OFX/QFX statements",
		Long: `Import transactions from OFX or QFX files exported from your bank. Credits
are recorded as other income and debits as other expense; edit them
afterwards to set proper categories. Lines already in the ledger are skipped.`,
		Example: `  khata import ofx ~/Downloads/sbi_nov_2024.ofx
  khata import ofx ~/Downloads/*.qfx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandGlobs(args)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import").
				WithHint("No transactions were saved.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			seen := make(map[string]bool)
			for _, txn := range s.ledger.Transactions() {
				seen[dedupeKey(txn.Input())] = true
			}

			parser := ofx.NewParser()
			progress := cli.NewProgress(cmd.ErrOrStderr(), len(files), "Reading statements")
			var inputs []model.TransactionInput
			var accounts []string
			duplicates := 0
			for _, path := range files {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				parsed, accts, err := parseStatement(ctx, parser, path)
				if err != nil {
					slog.Error("Failed to parse OFX file", "file", path, "error", err)
					progress.Step()
					continue
				}
				accounts = append(accounts, accts...)
				for _, in := range parsed {
					key := dedupeKey(in)
					if seen[key] {
						duplicates++
						continue
					}
					seen[key] = true
					inputs = append(inputs, in)
				}
				progress.Step()
			}
			progress.Done()

			if duplicates > 0 {
				printLine(cmd, cli.FormatInfo(fmt.Sprintf("Skipped %d transactions already recorded", duplicates)))
			}
			if len(inputs) == 0 {
				printLine(cmd, cli.FormatWarning("No new transactions found"))
				return nil
			}
			if dryRun {
				slices.Sort(accounts)
				if accounts = slices.Compact(accounts); len(accounts) > 0 {
					printLine(cmd, cli.SubtleStyle.Render("Accounts: "+strings.Join(accounts, ", ")))
				}
				printLine(cmd, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be added", len(inputs))))
				return nil
			}
			if handler.WasInterrupted() {
				return ctx.Err()
			}

			if err := s.autoCheckpoint(ctx, "import-ofx"); err != nil {
				return err
			}
			_, err = s.ledger.AddMany(ctx, inputs)
			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview import without saving")
	return cmd
}

// parseStatement reads one statement file, returning its lines and the
// account ids it covers.
func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]model.TransactionInput, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	inputs, err := parser.ParseFile(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	accounts, err := parser.GetAccounts(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return inputs, accounts, nil
}

// dedupeKey identifies a statement line well enough to skip re-imports. The
// input is normalized so a blank line matches its stored placeholder.
func dedupeKey(in model.TransactionInput) string {
	in = in.Normalize()
	return fmt.Sprintf("%s|%s|%s|%s", in.Date, in.Type, in.Amount.StringFixed(2), in.Description)
}

// expandGlobs resolves shell patterns the shell left unexpanded.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// readInput reads a whole file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdoutPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
