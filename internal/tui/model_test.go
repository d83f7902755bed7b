package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/khata/internal/ledger"
	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/service"
	"github.com/Veraticus/khata/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		testutil.NewInput().Describe("Salary").On(2024, time.October, 1).Transaction("t1"),
		testutil.NewInput().Expense(model.CategoryGroceries).Describe("Vegetables").Amount("450").
			On(2024, time.November, 3).Transaction("t2"),
		testutil.NewInput().Farming("Wheat", "10", model.UnitQuintal, model.SaleMandi).Amount("22000").
			On(2024, time.November, 10).Transaction("t3"),
		testutil.NewInput().Farming("Wheat", "5", model.UnitQuintal, model.SaleMandi).Amount("11500").
			On(2024, time.November, 18).Transaction("t4"),
	}
}

func newTestModel(t *testing.T) (Model, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore(sampleTransactions(), nil)
	l, err := ledger.Open(context.Background(), store, ledger.WithNotifier(service.Discard))
	require.NoError(t, err)
	return New(context.Background(), l, WithSize(120, 40)), store
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func descriptions(m Model) []string {
	var out []string
	for _, txn := range m.visible {
		out = append(out, txn.Description)
	}
	return out
}

func TestNew_ShowsNewestFirst(t *testing.T) {
	m, _ := newTestModel(t)

	require.Len(t, m.visible, 4)
	assert.Equal(t, "t4", m.visible[0].ID)
	assert.Equal(t, "t1", m.visible[3].ID)
	assert.Len(t, m.table.Rows(), 4)
}

func TestMonthFilterCycles(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "m")
	assert.Equal(t, "2024-11", m.spec.Month)
	assert.Len(t, m.visible, 3)

	m = press(t, m, "m")
	assert.Equal(t, "2024-10", m.spec.Month)
	assert.Len(t, m.visible, 1)

	m = press(t, m, "m")
	assert.Empty(t, m.spec.Month)
	assert.Len(t, m.visible, 4)
}

func TestTypeAndCategoryFilters(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "t", "t")
	assert.Equal(t, "expense", m.spec.Type)
	assert.Equal(t, []string{"Vegetables"}, descriptions(m))

	m = press(t, m, "r", "c")
	assert.Equal(t, "farming", m.spec.Category)
	assert.Len(t, m.visible, 2)

	m = press(t, m, "s")
	assert.Equal(t, "Wheat", m.spec.Subcategory)

	m = press(t, m, "c")
	assert.Equal(t, "groceries", m.spec.Category)
	assert.Empty(t, m.spec.Subcategory)
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "/", "v", "e", "g", "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "veg", m.query)
	assert.Equal(t, []string{"Vegetables"}, descriptions(m))

	m = press(t, m, "/", "x", "esc")
	assert.Equal(t, "veg", m.query)

	m = press(t, m, "r")
	assert.Len(t, m.visible, 4)
}

func TestDelete_Confirmed(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, "d")
	assert.Equal(t, "t4", m.pendingDelete)
	assert.Contains(t, m.View(), "Delete")

	m = press(t, m, "y")
	assert.Empty(t, m.pendingDelete)
	assert.Equal(t, "Transaction deleted successfully!", m.status)
	assert.Len(t, m.visible, 3)

	stored, _ := store.Stored()
	assert.Len(t, stored, 3)
}

func TestDelete_Cancelled(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, "down", "d", "n")
	assert.Empty(t, m.pendingDelete)
	assert.Len(t, m.visible, 4)
	assert.Zero(t, store.Writes)
}

func TestDelete_Failure(t *testing.T) {
	m, store := newTestModel(t)
	store.FailWrites = true

	m = press(t, m, "d", "y")
	assert.Contains(t, m.status, "Delete failed")
	assert.Len(t, m.visible, 4)
}

func TestFarmingView(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "f")
	assert.Equal(t, ViewFarming, m.view)
	require.Len(t, m.groups, 1)
	assert.Equal(t, []string{"November 2024", "Wheat", "quintal"}, m.groups[0].Key)
	assert.Equal(t, "33500", m.groups[0].TotalAmount.String())
	assert.Equal(t, 2, m.groups[0].Count())

	rows := m.table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "15.00", rows[0][4])
	assert.Equal(t, "₹2233.33", rows[0][6])

	// Deleting is only offered from the history view.
	m = press(t, m, "d")
	assert.Empty(t, m.pendingDelete)

	m = press(t, m, "f")
	assert.Equal(t, ViewHistory, m.view)
	assert.Len(t, m.table.Rows(), 4)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestCycle(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "a", cycle("", opts))
	assert.Equal(t, "b", cycle("a", opts))
	assert.Empty(t, cycle("b", opts))
	assert.Empty(t, cycle("gone", opts))
	assert.Empty(t, cycle("", nil))
}

type staticLedger struct{ txns []model.Transaction }

func (f staticLedger) Transactions() []model.Transaction { return f.txns }

func (f staticLedger) Delete(context.Context, string) error {
	return errors.New("boom")
}

func TestView_EmptyLedger(t *testing.T) {
	m := New(context.Background(), staticLedger{})
	assert.Contains(t, m.View(), "No transactions match")

	m = press(t, m, "f")
	assert.Contains(t, m.View(), "No farming income recorded")
}
