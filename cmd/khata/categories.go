package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the income and expense categories",
		Long:  `Categories are fixed. Farming is valid for both income and expense.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("TYPE"),
				headerStyle.Render("CATEGORY"),
				headerStyle.Render("LABEL"))

			for _, t := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
				for _, c := range model.CategoriesFor(t) {
					fmt.Fprintf(w, "%s\t%s\t%s\n", t.Label(), c, c.Label())
				}
			}
			return w.Flush()
		},
	}
}

func subcategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subcategories",
		Short: "Manage subcategory suggestions",
		Long: `Subcategories are free text. The ones registered here, plus any already
used, are suggested when adding transactions interactively.`,
	}

	cmd.AddCommand(listSubcategoriesCmd())
	cmd.AddCommand(addSubcategoryCmd())
	cmd.AddCommand(removeSubcategoryCmd())

	return cmd
}

func listSubcategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List known subcategories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var category model.Category
			if len(args) == 1 {
				category = model.Category(args[0])
				if !category.Known() {
					return common.NewValidationError("category", "unknown category "+args[0])
				}
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.ledger.Subcategories(cmd.Context(), category)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printLine(cmd, cli.SubtitleStyle.Render("No subcategories yet."))
				return nil
			}
			printLine(cmd, strings.Join(names, "\n"))
			return nil
		},
	}
}

func addSubcategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <category> <name>",
		Short:   "Register a subcategory",
		Example: `  khata subcategories add farming Sugarcane`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			category := model.Category(args[0])
			name := strings.Join(args[1:], " ")
			if err := s.ledger.RegisterSubcategory(cmd.Context(), category, name); err != nil {
				return err
			}
			printLine(cmd, cli.FormatSuccess(fmt.Sprintf("Added %s to %s", strings.TrimSpace(name), category.Label())))
			return nil
		},
	}
}

func removeSubcategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <category> <name>",
		Aliases: []string{"rm"},
		Short:   "Forget a registered subcategory",
		Long:    `Transactions that already use the name keep it.`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			category := model.Category(args[0])
			name := strings.Join(args[1:], " ")
			if err := s.ledger.RemoveSubcategory(cmd.Context(), category, name); err != nil {
				return reportNotFound(cmd, err)
			}
			printLine(cmd, cli.FormatSuccess(fmt.Sprintf("Removed %s from %s", strings.TrimSpace(name), category.Label())))
			return nil
		},
	}
}
