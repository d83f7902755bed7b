package main

import (
	"fmt"

	"github.com/Veraticus/khata/internal/aggregate"
	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var spec filter.Spec
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions, newest first",
		Long: `List transactions matching every given filter. A filter left empty or set
to "all" matches everything.`,
		Example: `  khata history --month 2024-11
  khata history --type expense --category groceries
  khata history --category farming --subcategory Wheat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateMonth(spec.Month); err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txns := filter.SortNewestFirst(filter.Apply(s.ledger.Transactions(), spec))
			if len(txns) == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("No transactions found."))
				return nil
			}

			total := len(txns)
			if limit > 0 && limit < total {
				txns = txns[:limit]
			}

			if err := cli.WriteTransactions(cmd.OutOrStdout(), settings.CurrencySymbol, txns); err != nil {
				return fmt.Errorf("failed to write history: %w", err)
			}

			totals := aggregate.Totals(filter.Apply(s.ledger.Transactions(), spec))
			printLine(cmd, cli.SubtleStyle.Render(fmt.Sprintf("\nShowing %d of %d  ·  income %s  ·  expenses %s  ·  balance %s",
				len(txns), total,
				cli.FormatAmount(settings.CurrencySymbol, totals.Income),
				cli.FormatAmount(settings.CurrencySymbol, totals.Expenses),
				cli.FormatAmount(settings.CurrencySymbol, totals.Balance))))
			return nil
		},
	}

	cmd.Flags().StringVar(&spec.Month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVarP(&spec.Type, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&spec.Category, "category", "c", "", "category")
	cmd.Flags().StringVarP(&spec.Subcategory, "subcategory", "s", "", "subcategory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n transactions")

	return cmd
}

func summaryCmd() *cobra.Command {
	var month string
	var all bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and balance for a month",
		Long:  `Totals for one calendar month, the current one unless --month is given.`,
		Example: `  khata summary
  khata summary --month 2024-11
  khata summary --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateMonth(month); err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var summary aggregate.Summary
			switch {
			case all || month == filter.All:
				summary = aggregate.Totals(s.ledger.Transactions())
			case month != "":
				summary = aggregate.Summarize(s.ledger.Transactions(), month)
			default:
				summary = aggregate.Summarize(s.ledger.Transactions(), s.ledger.Today().MonthKey())
			}

			printLine(cmd, cli.SummaryCard(settings.CurrencySymbol, summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&all, "all", false, "total every transaction ever recorded")
	cmd.MarkFlagsMutuallyExclusive("month", "all")

	return cmd
}

// validateMonth accepts an empty month, "all" or YYYY-MM.
func validateMonth(month string) error {
	if month == "" || month == filter.All {
		return nil
	}
	if _, err := model.ParseMonth(month); err != nil {
		return common.NewValidationError("month", err.Error())
	}
	return nil
}
