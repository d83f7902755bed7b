package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/ledger"
	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// transactionFlags are the field flags shared by add and edit. Only flags the
// user actually set are applied.
type transactionFlags struct {
	txnType     string
	amount      string
	description string
	category    string
	subcategory string
	mode        string
	date        string
	quantity    string
	unit        string
	saleType    string
	comments    string
	interactive bool
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.txnType, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 1250.50")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "free-text description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category, e.g. groceries (see 'khata categories')")
	cmd.Flags().StringVarP(&f.subcategory, "subcategory", "s", "", "subcategory, e.g. Wheat")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "payment mode: cash or digital")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.quantity, "quantity", "", "farming: quantity sold")
	cmd.Flags().StringVar(&f.unit, "unit", "", "farming: unit (kg, quintal, ton, ...)")
	cmd.Flags().StringVar(&f.saleType, "sale-type", "", "farming: "+saleTypeNames())
	cmd.Flags().StringVar(&f.comments, "comments", "", "farming: comments")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "prompt for every field")
}

// changed reports whether any field flag was set.
func saleTypeNames() string {
	names := make([]string, 0, len(model.SaleTypes()))
	for _, st := range model.SaleTypes() {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

func (f *transactionFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"type", "amount", "description", "category", "subcategory", "mode", "date",
		"quantity", "unit", "sale-type", "comments"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply overlays the set flags on in.
func (f *transactionFlags) apply(cmd *cobra.Command, in model.TransactionInput) (model.TransactionInput, error) {
	flags := cmd.Flags()

	if flags.Changed("type") {
		t, err := parseType(f.txnType)
		if err != nil {
			return in, err
		}
		in.Type = t
	}
	if flags.Changed("amount") {
		amount, err := decimal.NewFromString(f.amount)
		if err != nil {
			return in, common.NewValidationError("amount", "enter a valid amount")
		}
		in.Amount = amount
	}
	if flags.Changed("description") {
		in.Description = f.description
	}
	if flags.Changed("category") {
		in.Category = model.Category(f.category)
	}
	if flags.Changed("subcategory") {
		in.Subcategory = f.subcategory
	}
	if flags.Changed("mode") {
		in.PaymentMode = model.PaymentMode(f.mode)
	}
	if flags.Changed("date") {
		d, err := model.ParseDate(f.date)
		if err != nil {
			return in, common.NewValidationError("date", "enter a date as YYYY-MM-DD")
		}
		in.Date = d
	}

	if !flags.Changed("quantity") && !flags.Changed("unit") && !flags.Changed("sale-type") && !flags.Changed("comments") {
		return in, nil
	}

	fd := model.FarmingDetails{}
	if in.FarmingDetails != nil {
		fd = *in.FarmingDetails
	}
	if flags.Changed("quantity") {
		q, err := decimal.NewFromString(f.quantity)
		if err != nil {
			return in, common.NewValidationError("quantity", "enter a valid quantity for farming transaction")
		}
		fd.Quantity = q
	}
	if flags.Changed("unit") {
		fd.Unit = model.Unit(f.unit)
	}
	if flags.Changed("sale-type") {
		fd.SaleType = model.SaleType(f.saleType)
	}
	if flags.Changed("comments") {
		fd.Comments = f.comments
	}
	in.FarmingDetails = &fd
	return in, nil
}

// complete overlays flags on the draft and, with --interactive, lets the
// user review every field.
func (f *transactionFlags) complete(cmd *cobra.Command, l *ledger.Ledger, d model.Draft) (model.Draft, error) {
	in, err := f.apply(cmd, d.Input)
	if err != nil {
		return d, err
	}
	d.Input = in

	if !f.interactive {
		return d, nil
	}
	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return prompter.CompleteDraft(cmd.Context(), d, subcategorySuggester(cmd.Context(), l))
}

func subcategorySuggester(ctx context.Context, l *ledger.Ledger) func(model.Category) []string {
	return func(c model.Category) []string {
		names, err := l.Subcategories(ctx, c)
		if err != nil {
			slog.Warn("Failed to load subcategory suggestions", "category", c, "error", err)
			return nil
		}
		return names
	}
}

func printCommitted(cmd *cobra.Command, txn model.Transaction) {
	printLine(cmd, fmt.Sprintf("  %s %s  %s  %s",
		cli.SubtleStyle.Render("ID:"),
		cli.InfoStyle.Render(txn.ID),
		txn.Date.String(),
		cli.FormatAmount(settings.CurrencySymbol, txn.Amount)))
}

func addCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Long: `Record a new transaction. Type defaults to expense, payment mode to cash
and the date to today. Farming income also needs --quantity, --unit and
--sale-type.`,
		Example: `  # A grocery bill paid by UPI
  khata add -t expense -c groceries -a 450 -d "Vegetables" -m digital

  # A mandi sale of wheat
  khata add -t income -c farming -s Wheat -a 22000 --quantity 10 --unit quintal --sale-type mandi

  # Answer prompts for each field
  khata add -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			draft := model.Draft{Input: model.TransactionInput{
				Type:        model.TypeExpense,
				PaymentMode: model.PaymentCash,
				Date:        s.ledger.Today(),
			}}
			draft, err = flags.complete(cmd, s.ledger, draft)
			if err != nil {
				return err
			}

			txn, err := s.ledger.Commit(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printCommitted(cmd, txn)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Change an existing transaction",
		Long:  `Replace fields of a transaction. Fields without a flag keep their value.`,
		Example: `  khata edit 6f1c... --amount 480
  khata edit 6f1c... -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.interactive && !flags.changed(cmd) {
				return common.NewUserError("nothing to change: pass field flags or --interactive", nil)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			draft, err := s.ledger.EditDraft(args[0])
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

func deleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn, err := s.ledger.Transaction(args[0])
			if err != nil {
				return reportNotFound(cmd, err)
			}

			question := fmt.Sprintf("Delete %s %s of %s on %s?",
				txn.Type, txn.Description, cli.FormatAmount(settings.CurrencySymbol, txn.Amount), txn.Date)
			ok, err := confirm(cmd, force, question)
			if err != nil || !ok {
				return err
			}

			return reportNotFound(cmd, s.ledger.Delete(cmd.Context(), txn.ID))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
