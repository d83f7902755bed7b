package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/khata/internal/aggregate"
	"github.com/Veraticus/khata/internal/cli"
	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderFilters(),
		m.table.View(),
		m.renderFooter(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.LedgerIcon + " Transaction History")
	if m.view == ViewFarming {
		title = m.theme.Title.Render(cli.FarmIcon + " Farming Income")
		return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.renderFarmingTotals())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.renderTotals())
}

func (m Model) renderTotals() string {
	s := aggregate.Totals(m.visible)
	balance := m.theme.Income
	if !s.Positive() {
		balance = m.theme.Expense
	}
	return strings.Join([]string{
		m.theme.Income.Render("Income " + cli.FormatAmount(m.currency, s.Income)),
		m.theme.Expense.Render("Expenses " + cli.FormatAmount(m.currency, s.Expenses)),
		balance.Render("Balance " + cli.FormatAmount(m.currency, s.Balance)),
		m.theme.Subtitle.Render(fmt.Sprintf("%d shown", len(m.visible))),
	}, "  ")
}

func (m Model) renderFarmingTotals() string {
	var count int
	total := decimal.Zero
	for _, g := range m.groups {
		count += g.Count()
		total = total.Add(g.TotalAmount)
	}
	amount := cli.FormatAmount(m.currency, total)
	return strings.Join([]string{
		m.theme.Income.Render("Total " + amount),
		m.theme.Subtitle.Render(fmt.Sprintf("%d sales in %d groups", count, len(m.groups))),
	}, "  ")
}

func (m Model) renderFilters() string {
	parts := []string{
		m.filterLabel("Month", model.FormatMonth(m.spec.Month), m.spec.Month),
	}
	if m.view == ViewHistory {
		parts = append(parts,
			m.filterLabel("Type", model.Capitalize(m.spec.Type), m.spec.Type),
			m.filterLabel("Category", model.FormatLabel(m.spec.Category), m.spec.Category),
		)
	}
	parts = append(parts, m.filterLabel("Subcategory", m.spec.Subcategory, m.spec.Subcategory))

	if m.searching {
		parts = append(parts, m.search.View())
	} else if m.query != "" {
		parts = append(parts, m.theme.FilterActive.Render(fmt.Sprintf("Search: %q", m.query)))
	}
	return strings.Join(parts, m.theme.Subtitle.Render(" · "))
}

func (m Model) filterLabel(name, display, value string) string {
	if value == "" || value == filter.All {
		return m.theme.FilterIdle.Render(name + ": All")
	}
	return m.theme.FilterActive.Render(name + ": " + display)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return m.statusStyle.Render(m.status)
	}
	if m.view == ViewHistory && len(m.visible) == 0 {
		return m.theme.Subtitle.Render("No transactions match the current filters")
	}
	if m.view == ViewFarming && len(m.groups) == 0 {
		return m.theme.Subtitle.Render("No farming income recorded")
	}
	return ""
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 16},
		{Title: "Subcategory", Width: 14},
		{Title: "Description", Width: 28},
		{Title: "Mode", Width: 8},
		{Title: "Amount", Width: 12},
	}
}

func (m Model) historyRows() []table.Row {
	rows := make([]table.Row, 0, len(m.visible))
	for _, txn := range m.visible {
		amount := cli.FormatAmount(m.currency, txn.Amount)
		if txn.Type == model.TypeExpense {
			amount = "-" + amount
		}
		rows = append(rows, table.Row{
			txn.Date.String(),
			txn.Type.Label(),
			txn.Category.Label(),
			txn.Subcategory,
			txn.Description,
			txn.PaymentMode.Label(),
			amount,
		})
	}
	return rows
}

func farmingColumns() []table.Column {
	cols := make([]table.Column, 0, 7)
	for _, name := range aggregate.AllDimensions.Names() {
		cols = append(cols, table.Column{Title: name, Width: 14})
	}
	return append(cols,
		table.Column{Title: "Sales", Width: 6},
		table.Column{Title: "Quantity", Width: 10},
		table.Column{Title: "Amount", Width: 12},
		table.Column{Title: "Avg Rate", Width: 10},
	)
}

func (m Model) groupRows() []table.Row {
	rows := make([]table.Row, 0, len(m.groups))
	for _, g := range m.groups {
		row := make(table.Row, 0, len(g.Key)+4)
		row = append(row, g.Key...)
		row = append(row,
			fmt.Sprintf("%d", g.Count()),
			g.TotalQuantity.StringFixed(2),
			cli.FormatAmount(m.currency, g.TotalAmount),
			cli.FormatAmount(m.currency, g.AverageRate()),
		)
		rows = append(rows, row)
	}
	return rows
}
