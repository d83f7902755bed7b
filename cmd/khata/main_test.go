package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/khata/internal/model"
	"github.com/Veraticus/khata/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv runs commands against a database in a temp dir with no config file.
type testEnv struct {
	t      *testing.T
	dbPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return &testEnv{t: t, dbPath: filepath.Join(dir, "khata.db")}
}

// run executes khata with args and returns everything written to stdout and
// stderr.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var out bytes.Buffer

	root := newRootCmd()
	root.SetArgs(append([]string{"--db", e.dbPath, "--log-level", "error"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, out)
	return out
}

// stored reads the records straight from the database file.
func (e *testEnv) stored() ([]model.Transaction, []model.QuickNote) {
	e.t.Helper()
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(e.dbPath)
	require.NoError(e.t, err)
	defer store.Close()
	require.NoError(e.t, store.Migrate(ctx))

	txns, err := store.LoadTransactions(ctx)
	require.NoError(e.t, err)
	notes, err := store.LoadQuickNotes(ctx)
	require.NoError(e.t, err)
	return txns, notes
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("version")
	assert.Equal(t, "khata dev\n", out)
}

func TestInvalidLogLevelFailsEarly(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("", "--log-level", "loud", "history")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestCurrencyFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("KHATA_UI_CURRENCY_SYMBOL", "Rs ")

	env.mustRun("add", "-c", "food", "-a", "80", "-d", "Lunch", "--date", "2024-11-02")
	out := env.mustRun("history")
	assert.Contains(t, out, "-Rs 80.00")
}
