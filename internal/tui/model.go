// Package tui implements the interactive history browser: a filterable
// transaction table with a month summary and a farming pivot view.
//
// The model calls the ledger from its Update method only, so the ledger is
// never used from more than one goroutine.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/khata/internal/aggregate"
	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Ledger is the part of the ledger the browser needs.
type Ledger interface {
	Transactions() []model.Transaction
	Delete(ctx context.Context, id string) error
}

// View represents the current view mode.
type View int

// View modes.
const (
	ViewHistory View = iota
	ViewFarming
)

// chromeHeight is the number of lines around the table.
const chromeHeight = 9

// Model holds the browser state.
type Model struct {
	ctx           context.Context
	ledger        Ledger
	statusStyle   lipgloss.Style
	theme         themes.Theme
	keymap        KeyMap
	spec          filter.Spec
	status        string
	query         string
	pendingDelete string
	currency      string
	visible       []model.Transaction
	groups        []aggregate.Group
	search        textinput.Model
	help          help.Model
	table         table.Model
	width         int
	height        int
	view          View
	searching     bool
	quitting      bool
}

// New creates a browser over l.
func New(ctx context.Context, l Ledger, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	search := textinput.New()
	search.Placeholder = "description"
	search.Prompt = "/ "
	search.CharLimit = model.MaxDescriptionLength

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	m := Model{
		ctx:      ctx,
		ledger:   l,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		search:   search,
		table:    t,
		currency: cfg.CurrencySymbol,
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.resize()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.pendingDelete != "" {
			return m.updateConfirm(msg), nil
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	all := m.ledger.Transactions()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Month):
		m.spec.Month = cycle(m.spec.Month, filter.Months(all))

	case key.Matches(msg, m.keymap.Type):
		m.spec.Type = cycle(m.spec.Type, []string{string(model.TypeIncome), string(model.TypeExpense)})

	case key.Matches(msg, m.keymap.Category):
		m.spec.Category = cycle(m.spec.Category, filter.Categories(all))
		m.spec.Subcategory = ""

	case key.Matches(msg, m.keymap.Subcategory):
		m.spec.Subcategory = cycle(m.spec.Subcategory, filter.Subcategories(all, m.spec.Category))

	case key.Matches(msg, m.keymap.Reset):
		m.spec = filter.Spec{}
		m.query = ""
		m.search.SetValue("")

	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		m.search.SetValue(m.query)
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.Delete):
		if txn, ok := m.selected(); ok {
			m.pendingDelete = txn.ID
			m.setStatus(fmt.Sprintf("Delete %q? (y/n)", txn.Description), m.theme.StatusWarning)
		}
		return m, nil

	case key.Matches(msg, m.keymap.ToggleView):
		if m.view == ViewHistory {
			m.view = ViewFarming
		} else {
			m.view = ViewHistory
		}

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.refresh()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.query = strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		id := m.pendingDelete
		m.pendingDelete = ""
		if err := m.ledger.Delete(m.ctx, id); err != nil {
			m.setStatus("Delete failed: "+err.Error(), m.theme.StatusError)
			return m
		}
		m.setStatus("Transaction deleted successfully!", m.theme.StatusSuccess)
		m.refresh()
	case key.Matches(msg, m.keymap.Cancel):
		m.pendingDelete = ""
		m.status = ""
	}
	return m
}

// refresh recomputes the visible rows from the ledger and the filters.
func (m *Model) refresh() {
	all := m.ledger.Transactions()

	if m.view == ViewFarming {
		m.groups = aggregate.FarmingSummary(all, aggregate.FarmingFilter{
			Month:       m.spec.Month,
			Subcategory: m.spec.Subcategory,
		}, aggregate.AllDimensions)
		m.visible = nil
		m.setTable(farmingColumns(), m.groupRows())
		return
	}

	visible := filter.SortNewestFirst(filter.Apply(all, m.spec))
	if m.query != "" {
		q := strings.ToLower(m.query)
		matched := visible[:0]
		for _, txn := range visible {
			if strings.Contains(strings.ToLower(txn.Description), q) {
				matched = append(matched, txn)
			}
		}
		visible = matched
	}
	m.visible = visible
	m.groups = nil
	m.setTable(historyColumns(), m.historyRows())
}

func (m *Model) setTable(cols []table.Column, rows []table.Row) {
	// Rows must never have fewer cells than the columns being rendered.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)

	if last := len(rows) - 1; m.table.Cursor() > last {
		m.table.SetCursor(max(last, 0))
	}
}

func (m *Model) resize() {
	m.table.SetHeight(max(m.height-chromeHeight, 3))
	m.table.SetWidth(m.width)
	m.help.Width = m.width
}

func (m *Model) setStatus(text string, style lipgloss.Style) {
	m.status = text
	m.statusStyle = style
}

// selected returns the transaction under the cursor in the history view.
func (m Model) selected() (model.Transaction, bool) {
	if m.view != ViewHistory {
		return model.Transaction{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return model.Transaction{}, false
	}
	return m.visible[i], true
}

// cycle steps through "" (all) followed by options, wrapping around. A
// current value no longer among options restarts at "".
func cycle(current string, options []string) string {
	if current == "" || current == filter.All {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	for i, opt := range options {
		if opt == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return ""
}
