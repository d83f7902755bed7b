package main

import (
	"fmt"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/spf13/cobra"
)

func clearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all transactions and quick notes",
		Long: `Remove every transaction and quick note. A checkpoint is taken first, so
'khata checkpoint restore' can undo this.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txns, notes := len(s.ledger.Transactions()), len(s.ledger.Notes())
			if txns == 0 && notes == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("Nothing to clear."))
				return nil
			}

			printLine(cmd, cli.FormatWarning(fmt.Sprintf("This will delete %d transactions and %d quick notes.", txns, notes)))
			ok, err := confirm(cmd, force, "Continue?")
			if err != nil || !ok {
				return err
			}

			if err := s.autoCheckpoint(cmd.Context(), "clear"); err != nil {
				return err
			}
			return s.ledger.Clear(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
