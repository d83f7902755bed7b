package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/khata/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	//nolint:staticcheck // nil is the case under test
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, validateContext(canceled), "cancellation is left to the driver")
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("  farming ", "category"))

	for _, blank := range []string{"", "   ", "\t\n"} {
		err := validateString(blank, "category")
		assert.ErrorIs(t, err, ErrEmptyString)
		assert.ErrorContains(t, err, "category")
	}
}

func TestValidateTransactions(t *testing.T) {
	cases := map[string]struct {
		txns []model.Transaction
		want error
	}{
		"nil collection": {},
		"unique ids":     {txns: []model.Transaction{{ID: "a"}, {ID: "b"}}},
		"legacy vocabulary": {
			txns: []model.Transaction{{ID: "a", Category: "legacy-thing", Type: "transfer"}},
		},
		"blank id":     {txns: []model.Transaction{{ID: "a"}, {ID: " "}}, want: ErrInvalidTransaction},
		"duplicate id": {txns: []model.Transaction{{ID: "a"}, {ID: "b"}, {ID: "a"}}, want: ErrDuplicateID},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := validateTransactions(tc.txns)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateTransactions_ReportsIndex(t *testing.T) {
	err := validateTransactions([]model.Transaction{{ID: "a"}, {ID: "b"}, {ID: "b"}})
	assert.ErrorContains(t, err, "index 2")
}

func TestValidateQuickNotes(t *testing.T) {
	assert.NoError(t, validateQuickNotes([]model.QuickNote{{ID: "n1"}, {ID: "n2"}}))
	assert.ErrorIs(t, validateQuickNotes([]model.QuickNote{{ID: ""}}), ErrInvalidQuickNote)
	assert.ErrorIs(t, validateQuickNotes([]model.QuickNote{{ID: "n1"}, {ID: "n1"}}), ErrDuplicateID)
}
