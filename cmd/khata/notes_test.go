package main

import (
	"testing"

	"github.com/Veraticus/khata/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesLifecycle(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("notes", "add", "expense", "120", "tea", "stall")
	assert.Contains(t, out, "Quick expense note added!")

	out = env.mustRun("notes", "list")
	assert.Contains(t, out, "tea stall")
	assert.Contains(t, out, "₹120.00")

	_, notes := env.stored()
	require.Len(t, notes, 1)

	out = env.mustRun("notes", "complete", notes[0].ID, "-c", "food", "--date", "2024-11-20")
	assert.Contains(t, out, "Expense added successfully!")

	txns, notes := env.stored()
	assert.Empty(t, notes)
	require.Len(t, txns, 1)
	assert.Equal(t, "tea stall", txns[0].Description)
	assert.Equal(t, "120", txns[0].Amount.String())
	assert.Equal(t, model.PaymentCash, txns[0].PaymentMode)
	assert.True(t, txns[0].IsQuickEntry)

	out = env.mustRun("notes", "list")
	assert.Contains(t, out, "No quick notes.")
}

func TestNotesComplete_InvalidKeepsNote(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("notes", "add", "income", "3000")
	_, notes := env.stored()
	require.Len(t, notes, 1)

	// No category given.
	_, err := env.run("", "notes", "complete", notes[0].ID)
	require.Error(t, err)

	txns, notes := env.stored()
	assert.Empty(t, txns)
	assert.Len(t, notes, 1)
}

func TestNotesDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("notes", "add", "income", "3000", "milk", "money")
	_, notes := env.stored()
	require.Len(t, notes, 1)

	out := env.mustRun("notes", "delete", notes[0].ID)
	assert.Contains(t, out, "Quick income note deleted!")

	out = env.mustRun("notes", "delete", notes[0].ID)
	assert.Contains(t, out, "not found")
}

func TestNotesAdd_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "notes", "add", "gift", "100")
	assert.Error(t, err)

	_, err = env.run("", "notes", "add", "expense", "-5")
	assert.Error(t, err)

	_, notes := env.stored()
	assert.Empty(t, notes)
}
