package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/khata/internal/aggregate"
	"github.com/Veraticus/khata/internal/model"
)

// SummaryCard renders the income, expense and balance totals of a month.
func SummaryCard(symbol string, s aggregate.Summary) string {
	balanceStyle := IncomeStyle
	if !s.Positive() {
		balanceStyle = ExpenseStyle
	}

	lines := []string{
		"Income:   " + IncomeStyle.Render(FormatAmount(symbol, s.Income)),
		"Expenses: " + ExpenseStyle.Render(FormatAmount(symbol, s.Expenses)),
		"Balance:  " + balanceStyle.Render(FormatAmount(symbol, s.Balance)),
		SubtleStyle.Render(fmt.Sprintf("%d transactions", s.Count)),
	}

	title := ChartIcon + " All time"
	if s.Month != "" {
		title = ChartIcon + " " + model.FormatMonth(s.Month)
	}
	return renderCard(title, strings.Join(lines, "\n"))
}

// WriteTransactions prints a history table.
func WriteTransactions(w io.Writer, symbol string, txns []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tCATEGORY\tSUBCATEGORY\tDESCRIPTION\tPAYMENT\tAMOUNT\tID")
	for _, t := range txns {
		desc := t.Description
		if t.IsQuickEntry {
			desc = NoteIcon + " " + desc
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Date.String(),
			t.Type.Label(),
			t.Category.Label(),
			dash(t.Subcategory),
			desc,
			t.PaymentMode.Label(),
			signedAmount(symbol, t),
			t.ID,
		)
	}
	return tw.Flush()
}

// WriteFarmingTransactions prints farming sales with their produce details.
func WriteFarmingTransactions(w io.Writer, symbol string, txns []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCROP\tQUANTITY\tSALE TYPE\tAMOUNT\tRATE\tCOMMENTS")
	for _, t := range txns {
		fd := t.FarmingDetails
		if fd == nil {
			continue
		}
		rate := "-"
		if fd.Quantity.IsPositive() {
			rate = FormatAmount(symbol, t.Amount.Div(fd.Quantity)) + "/" + string(fd.Unit)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
			t.Date.String(),
			dash(t.Subcategory),
			fd.Quantity.String(),
			fd.Unit,
			fd.SaleType.Label(),
			FormatAmount(symbol, t.Amount),
			rate,
			dash(fd.Comments),
		)
	}
	return tw.Flush()
}

// WriteGroups prints a farming pivot with one row per group.
func WriteGroups(w io.Writer, symbol string, dims aggregate.Dimensions, groups []aggregate.Group) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := dims.Names()
	if len(header) == 0 {
		header = []string{"total"}
	}
	for i, h := range header {
		header[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(tw, strings.Join(append(header, "COUNT", "QUANTITY", "AMOUNT", "AVG RATE"), "\t"))

	for _, g := range groups {
		key := g.Key
		if len(key) == 0 {
			key = []string{"All"}
		}
		cells := append([]string{}, key...)
		cells = append(cells,
			fmt.Sprintf("%d", g.Count()),
			g.TotalQuantity.String(),
			FormatAmount(symbol, g.TotalAmount),
			FormatAmount(symbol, g.AverageRate()),
		)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteNotes prints pending quick notes.
func WriteNotes(w io.Writer, symbol string, notes []model.QuickNote) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tTYPE\tAMOUNT\tDESCRIPTION\tID")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			n.CreatedAt.Local().Format("2006-01-02 15:04"),
			n.Type.Label(),
			FormatAmount(symbol, n.Amount),
			dash(n.Description),
			n.ID,
		)
	}
	return tw.Flush()
}

func signedAmount(symbol string, t model.Transaction) string {
	if t.Type == model.TypeExpense {
		return "-" + FormatAmount(symbol, t.Amount)
	}
	return "+" + FormatAmount(symbol, t.Amount)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
