package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense() TransactionInput {
	return TransactionInput{
		Type:        TypeExpense,
		Description: "November rent",
		Amount:      decimal.NewFromInt(12000),
		Category:    CategoryRent,
		PaymentMode: PaymentDigital,
		Date:        NewDate(2024, time.November, 3),
	}
}

func validFarming() TransactionInput {
	return TransactionInput{
		Type:        TypeIncome,
		Description: "Wheat sale",
		Amount:      decimal.NewFromInt(5000),
		Category:    CategoryFarming,
		Subcategory: "wheat",
		PaymentMode: PaymentCash,
		Date:        NewDate(2024, time.November, 10),
		FarmingDetails: &FarmingDetails{
			Quantity: decimal.NewFromInt(100),
			Unit:     UnitKg,
			SaleType: SaleMandi,
		},
	}
}

func TestTransactionInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TransactionInput)
		base      func() TransactionInput
		wantField string
	}{
		{name: "valid expense", base: validExpense},
		{name: "valid farming income", base: validFarming},
		{
			name:      "missing type",
			base:      validExpense,
			mutate:    func(in *TransactionInput) { in.Type = "" },
			wantField: "type",
		},
		{
			name:      "zero amount",
			base:      validExpense,
			mutate:    func(in *TransactionInput) { in.Amount = decimal.Zero },
			wantField: "amount",
		},
		{
			name:      "negative amount",
			base:      validExpense,
			mutate:    func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) },
			wantField: "amount",
		},
		{
			name:      "income category on expense",
			base:      validExpense,
			mutate:    func(in *TransactionInput) { in.Category = CategorySalary },
			wantField: "category",
		},
		{
			name:      "missing payment mode",
			base:      validExpense,
			mutate:    func(in *TransactionInput) { in.PaymentMode = "" },
			wantField: "paymentMode",
		},
		{
			name:      "missing date",
			base:      validExpense,
			mutate:    func(in *TransactionInput) { in.Date = Date{} },
			wantField: "date",
		},
		{
			name:      "farming without details",
			base:      validFarming,
			mutate:    func(in *TransactionInput) { in.FarmingDetails = nil },
			wantField: "farmingDetails",
		},
		{
			name:      "farming zero quantity",
			base:      validFarming,
			mutate:    func(in *TransactionInput) { in.FarmingDetails.Quantity = decimal.Zero },
			wantField: "quantity",
		},
		{
			name:      "farming missing unit",
			base:      validFarming,
			mutate:    func(in *TransactionInput) { in.FarmingDetails.Unit = "" },
			wantField: "unit",
		},
		{
			name:      "farming unknown sale type",
			base:      validFarming,
			mutate:    func(in *TransactionInput) { in.FarmingDetails.SaleType = "barter" },
			wantField: "saleType",
		},
		{
			name: "details on non-farming",
			base: validExpense,
			mutate: func(in *TransactionInput) {
				in.FarmingDetails = &FarmingDetails{Quantity: decimal.NewFromInt(1), Unit: UnitKg, SaleType: SaleRetail}
			},
			wantField: "farmingDetails",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.base()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			err := in.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, common.IsValidation(err))
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestTransactionInput_NormalizeDropsFarmingDetails(t *testing.T) {
	in := validFarming()
	in.Category = CategoryBusiness
	in.Description = "  stall rent  "

	got := in.Normalize()
	assert.Nil(t, got.FarmingDetails)
	assert.Equal(t, "stall rent", got.Description)
	assert.NoError(t, got.Validate())
}

func TestTransactionInput_NormalizeFillsBlankDescription(t *testing.T) {
	in := validFarming()
	in.Description = " \t "
	assert.Equal(t, DefaultDescription, in.Normalize().Description)

	in.Description = " mandi "
	assert.Equal(t, "mandi", in.Normalize().Description)
}

func TestNoteInput_Normalize(t *testing.T) {
	assert.Equal(t, "Quick expense", NoteInput{Type: TypeExpense}.Normalize().Description)
	assert.Equal(t, "Quick income", NoteInput{Type: TypeIncome, Description: " "}.Normalize().Description)
	assert.Equal(t, "tea", NoteInput{Type: TypeExpense, Description: " tea "}.Normalize().Description)
}

func TestTransactionInput_ApplyToCopiesDetails(t *testing.T) {
	in := validFarming()
	var txn Transaction
	in.ApplyTo(&txn)

	require.NotNil(t, txn.FarmingDetails)
	in.FarmingDetails.Quantity = decimal.NewFromInt(1)
	assert.True(t, txn.FarmingDetails.Quantity.Equal(decimal.NewFromInt(100)), "apply must not alias input details")
	assert.Equal(t, in.Category, txn.Category)

	roundTrip := txn.Input()
	assert.Equal(t, txn.Subcategory, roundTrip.Subcategory)
	assert.True(t, roundTrip.Amount.Equal(txn.Amount))
}

func TestTransaction_IsFarmingIncome(t *testing.T) {
	var txn Transaction
	validFarming().ApplyTo(&txn)
	assert.True(t, txn.IsFarmingIncome())

	txn.Type = TypeExpense
	assert.False(t, txn.IsFarmingIncome())

	txn.Type = TypeIncome
	txn.FarmingDetails = nil
	assert.False(t, txn.IsFarmingIncome())
}

func TestTransaction_JSONShape(t *testing.T) {
	raw := `{
		"id": "abc",
		"type": "income",
		"description": "Wheat",
		"amount": 5000,
		"category": "farming",
		"subcategory": "wheat",
		"paymentMode": "cash",
		"date": "2024-11-05",
		"farmingDetails": {"quantity": 100, "unit": "kg", "saleType": "mandi", "comments": ""},
		"createdAt": "2024-11-05T10:00:00.000Z"
	}`

	var txn Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &txn))
	assert.Equal(t, "2024-11-05", txn.Date.String())
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(5000)))
	require.NotNil(t, txn.FarmingDetails)
	assert.Equal(t, UnitKg, txn.FarmingDetails.Unit)
	assert.Nil(t, txn.UpdatedAt)

	out, err := json.Marshal(txn)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"date":"2024-11-05"`)
	assert.NotContains(t, string(out), "updatedAt")
}

func TestNoteInput_Validate(t *testing.T) {
	ok := NoteInput{Type: TypeExpense, Amount: decimal.NewFromInt(40), Description: "tea"}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Amount = decimal.Zero
	assert.True(t, common.IsValidation(bad.Validate()))

	bad = ok
	bad.Type = "transfer"
	assert.True(t, common.IsValidation(bad.Validate()))
}

func TestDraft_Flags(t *testing.T) {
	assert.True(t, Draft{SourceNoteID: "n1"}.FromNote())
	assert.False(t, Draft{SourceNoteID: "n1"}.IsEdit())
	assert.True(t, Draft{SourceTransactionID: "t1"}.IsEdit())
	assert.False(t, Draft{}.FromNote())
}
