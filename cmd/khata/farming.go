package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/khata/internal/aggregate"
	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/spf13/cobra"
)

func farmingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farming",
		Short: "Review farming income",
		Long: `Farming income is every income transaction in the farming category that
carries produce details (quantity, unit, sale type).`,
	}

	cmd.AddCommand(farmingSummaryCmd())
	cmd.AddCommand(farmingListCmd())

	return cmd
}

func farmingSummaryCmd() *cobra.Command {
	var f aggregate.FarmingFilter
	var by []string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Group farming sales by month, crop and unit",
		Example: `  khata farming summary
  khata farming summary --by subcategory,unit
  khata farming summary --month 2024-11 --subcategory Wheat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateMonth(f.Month); err != nil {
				return err
			}
			dims, err := parseDimensions(by)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			groups := aggregate.FarmingSummary(s.ledger.Transactions(), f, dims)
			if len(groups) == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("No farming income recorded."))
				return nil
			}

			printLine(cmd, cli.FormatTitle("Farming income"))
			if err := cli.WriteGroups(cmd.OutOrStdout(), settings.CurrencySymbol, dims, groups); err != nil {
				return fmt.Errorf("failed to write farming summary: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVarP(&f.Subcategory, "subcategory", "s", "", "crop or produce")
	cmd.Flags().StringSliceVar(&by, "by", []string{"month", "subcategory", "unit"}, "group by any of month, subcategory, unit")

	return cmd
}

func farmingListCmd() *cobra.Command {
	var f aggregate.FarmingFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List farming sales with produce details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateMonth(f.Month); err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txns := aggregate.FarmingTransactions(s.ledger.Transactions(), f)
			if len(txns) == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("No farming income recorded."))
				return nil
			}
			if err := cli.WriteFarmingTransactions(cmd.OutOrStdout(), settings.CurrencySymbol, txns); err != nil {
				return fmt.Errorf("failed to write farming sales: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVarP(&f.Subcategory, "subcategory", "s", "", "crop or produce")

	return cmd
}

// parseDimensions reads the --by list. An explicit empty list totals
// everything in one group.
func parseDimensions(names []string) (aggregate.Dimensions, error) {
	var dims aggregate.Dimensions
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "month":
			dims.Month = true
		case "subcategory", "crop":
			dims.Subcategory = true
		case "unit":
			dims.Unit = true
		case "", "none":
		default:
			return dims, common.NewValidationError("by", fmt.Sprintf("unknown dimension %q (use month, subcategory, unit)", name))
		}
	}
	return dims, nil
}
