package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkpoint",
		Aliases: []string{"cp"},
		Short:   "Snapshot and roll back the ledger",
		Long: `A checkpoint is a full copy of the ledger database. khata takes one on its
own before every import and clear, keeping the most recent checkpoints.keep of
those. Named checkpoints you create are never pruned.`,
		Example: `  khata checkpoint create --tag before-rabi -d "before entering the rabi season"
  khata checkpoint list
  khata checkpoint restore before-rabi
  khata checkpoint delete before-rabi`,
	}

	cmd.AddCommand(createCheckpointCmd(), listCheckpointsCmd(), restoreCheckpointCmd(), deleteCheckpointCmd())
	return cmd
}

// shelf is an open database together with its checkpoint manager.
type shelf struct {
	store   *storage.SQLiteStorage
	manager *storage.CheckpointManager
}

func openShelf(cmd *cobra.Command) (*shelf, error) {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, err
	}
	s := &session{store: store}
	manager, err := s.checkpoints()
	if err != nil {
		closeStore(store)
		return nil, err
	}
	return &shelf{store: store, manager: manager}, nil
}

// Close is safe after a restore has already closed the database.
func (s *shelf) Close() {
	closeStore(s.store)
}

// lookup finds id, printing a warning when it does not exist.
func (s *shelf) lookup(cmd *cobra.Command, id string) (*storage.CheckpointInfo, error) {
	info, err := s.manager.GetCheckpointInfo(cmd.Context(), id)
	if errors.Is(err, storage.ErrCheckpointNotFound) {
		printLine(cmd, cli.FormatWarning(fmt.Sprintf("Checkpoint %q not found", id)))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", id, err)
	}
	return info, nil
}

func createCheckpointCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the ledger now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openShelf(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}
			printLine(cmd, cli.FormatSuccess(fmt.Sprintf("Created checkpoint %s (%s, %d transactions)",
				info.ID, formatFileSize(info.FileSize), info.Transactions)))
			if info.Description != "" {
				printLine(cmd, "  Description: "+info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "name for the checkpoint (default: timestamp)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the checkpoint is for")
	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show checkpoints, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openShelf(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}
			if len(infos) == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("No checkpoints found."))
				return nil
			}
			return writeCheckpoints(cmd, infos, time.Now())
		},
	}
}

func writeCheckpoints(cmd *cobra.Command, infos []storage.CheckpointInfo, now time.Time) error {
	head := lipgloss.NewStyle().Bold(true)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, head.Render("NAME")+"\t"+head.Render("TAKEN")+"\t"+head.Render("SIZE")+"\t"+
		head.Render("TXNS")+"\t"+head.Render("NOTES")+"\t"+head.Render("KIND")+"\t"+head.Render("DESCRIPTION"))

	for _, cp := range infos {
		kind := "manual"
		if cp.IsAuto {
			kind = "auto"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			cp.ID,
			formatRelativeTime(cp.CreatedAt, now),
			formatFileSize(cp.FileSize),
			cp.Transactions,
			cp.QuickNotes,
			kind,
			cli.SubtleStyle.Render(cp.Description))
	}
	return tw.Flush()
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the ledger with a checkpoint",
		Long:  `Everything recorded after the checkpoint was taken is lost.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			s, err := openShelf(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.lookup(cmd, id)
			if info == nil {
				return err
			}
			if !force {
				printLine(cmd, cli.FormatWarning(fmt.Sprintf("The ledger will be replaced by %s, taken %s with %d transactions.",
					id, info.CreatedAt.Local().Format("2006-01-02 15:04"), info.Transactions)))
			}
			if ok, err := confirm(cmd, force, "Restore?"); err != nil || !ok {
				return err
			}

			if err := s.manager.Restore(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}
			printLine(cmd, cli.FormatSuccess("Restored from checkpoint "+id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "restore without asking")
	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a checkpoint",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			s, err := openShelf(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.lookup(cmd, id)
			if info == nil {
				return err
			}
			if !force {
				printLine(cmd, cli.FormatWarning(fmt.Sprintf("Checkpoint %s (%s) will be deleted for good.",
					id, formatFileSize(info.FileSize))))
			}
			if ok, err := confirm(cmd, force, "Delete?"); err != nil || !ok {
				return err
			}

			if err := s.manager.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}
			printLine(cmd, cli.FormatSuccess("Deleted checkpoint "+id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without asking")
	return cmd
}

// formatFileSize renders size in binary units.
func formatFileSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size) / 1024
	units := "KMGTPE"
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %cB", value, units[i])
}

// formatRelativeTime describes t relative to now, falling back to a date
// after a week.
func formatRelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	ago := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return ago(int(elapsed/time.Minute), "minute")
	case elapsed < 24*time.Hour:
		return ago(int(elapsed/time.Hour), "hour")
	case elapsed < 48*time.Hour:
		return "yesterday"
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(elapsed/(24*time.Hour)))
	}
	return t.Local().Format("2006-01-02 15:04")
}
