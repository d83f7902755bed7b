package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/export"
	"github.com/spf13/cobra"
)

// stdoutPath sends an export to standard output.
const stdoutPath = "-"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to CSV or a JSON backup",
		Example: `  # Spreadsheet-friendly CSV in the current directory
  khata export csv

  # Full backup including quick notes, printed to stdout
  khata export json -o -`,
	}

	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportJSONCmd())

	return cmd
}

func exportCSVCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export all transactions as CSV, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if output == "" {
				output = export.CSVFilename(s.ledger.Now())
			}
			n := len(s.ledger.Transactions())
			return writeExport(cmd, output, func(w io.Writer) error {
				return export.WriteCSV(w, s.ledger.Transactions())
			}, fmt.Sprintf("Exported %d transactions", n))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: khata-transactions-<date>.csv)`)
	return cmd
}

func exportJSONCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export a JSON backup of transactions and quick notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if output == "" {
				output = export.JSONFilename(s.ledger.Now())
			}
			backup := s.ledger.Backup()
			return writeExport(cmd, output, func(w io.Writer) error {
				return export.WriteJSON(w, backup)
			}, fmt.Sprintf("Exported %d transactions and %d quick notes", len(backup.Transactions), len(backup.QuickNotes)))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: khata-export-<date>.json)`)
	return cmd
}

// writeExport runs write against stdout or a newly created file. A failed
// export never leaves a partial file behind.
func writeExport(cmd *cobra.Command, path string, write func(io.Writer) error, done string) error {
	if path == stdoutPath {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	printLine(cmd, cli.FormatSuccess(fmt.Sprintf("%s to %s", done, path)))
	return nil
}
