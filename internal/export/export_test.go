package export

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{
			ID:          "t1",
			Type:        model.TypeExpense,
			Description: `Rent "Nov"`,
			Amount:      decimal.NewFromInt(12000),
			Category:    model.CategoryRent,
			PaymentMode: model.PaymentDigital,
			Date:        model.NewDate(2024, time.November, 3),
		},
		{
			ID:          "t2",
			Type:        model.TypeIncome,
			Description: "Wheat sale",
			Amount:      decimal.RequireFromString("5000.5"),
			Category:    model.CategoryFarming,
			Subcategory: "wheat",
			PaymentMode: model.PaymentCash,
			Date:        model.NewDate(2024, time.November, 12),
			FarmingDetails: &model.FarmingDetails{
				Quantity: decimal.RequireFromString("100.5"),
				Unit:     model.UnitKg,
				SaleType: model.SaleDirectSale,
				Comments: `good "batch"`,
			},
		},
		{
			ID:          "t3",
			Type:        model.TypeIncome,
			Description: "Salary",
			Amount:      decimal.NewFromInt(50000),
			Category:    model.CategoryRentalIncome,
			Date:        model.NewDate(2024, time.October, 31),
		},
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleTransactions())
	require.NoError(t, err)

	want := strings.Join([]string{
		CSVHeader,
		`2024-11-12,Income,"Wheat sale",Farming,"wheat",Cash,5000.50,100.5,kg,Direct Sale,"good ""batch"""`,
		`2024-11-03,Expense,"Rent ""Nov""",Rent,"",Digital,12000.00,,,,`,
		`2024-10-31,Income,"Salary",Rental Income,"",Cash,50000.00,,,,`,
	}, "\n")
	assert.Equal(t, want, out)
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestCSV_BlankDescription(t *testing.T) {
	var txn model.Transaction
	model.TransactionInput{
		Type:        model.TypeIncome,
		Amount:      decimal.NewFromInt(10),
		Category:    model.CategorySalary,
		PaymentMode: model.PaymentCash,
		Date:        model.NewDate(2024, time.November, 5),
		Description: "   ",
	}.Normalize().ApplyTo(&txn)

	out, err := CSV([]model.Transaction{txn})
	require.NoError(t, err)
	assert.Equal(t, CSVHeader+"\n"+`2024-11-05,Income,"No description",Salary,"",Cash,10.00,,,,`, out)
}

func TestCSV_Header(t *testing.T) {
	assert.Equal(t,
		"Date,Type,Description,Category,Subcategory,Payment Mode,Amount (₹),Farming Quantity,Farming Unit,Sale Type,Farming Comments",
		CSVHeader)
}

func TestCSV_Empty(t *testing.T) {
	_, err := CSV(nil)
	assert.ErrorIs(t, err, common.ErrNothingToExport)

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV(&buf, []model.Transaction{}), common.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestCSV_ExpenseFarmingKeepsDetails(t *testing.T) {
	txn := model.Transaction{
		Type:        model.TypeExpense,
		Amount:      decimal.NewFromInt(800),
		Category:    model.CategoryFarming,
		PaymentMode: model.PaymentCash,
		Date:        model.NewDate(2024, time.May, 1),
		FarmingDetails: &model.FarmingDetails{
			Quantity: decimal.NewFromInt(2),
			Unit:     model.UnitBag,
			SaleType: model.SaleRetail,
		},
	}
	out, err := CSV([]model.Transaction{txn})
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2024-05-01,Expense,"",Farming,"",Cash,800.00,2,bag,Retail,""`, lines[1])
}

func TestCSVFilename(t *testing.T) {
	day := time.Date(2024, time.November, 5, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "khata-transactions-2024-11-05.csv", CSVFilename(day))
	assert.Equal(t, "khata-export-2024-11-05.json", JSONFilename(day))
}

func TestJSON_RoundTrip(t *testing.T) {
	now := time.Date(2024, time.November, 20, 10, 0, 0, 0, time.UTC)
	notes := []model.QuickNote{{ID: "n1", Type: model.TypeExpense, Amount: decimal.NewFromInt(30), Description: "auto fare"}}

	data, err := JSON(NewBackup(sampleTransactions(), notes, now))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("{\n  \"transactions\": [")), "two-space indent, transactions first")
	assert.Contains(t, string(data), `"version": "1.0"`)
	assert.Contains(t, string(data), `"exportDate": "2024-11-20T10:00:00Z"`)

	parsed, err := ParseImport(data)
	require.NoError(t, err)
	require.Len(t, parsed.Transactions, 3)
	require.Len(t, parsed.QuickNotes, 1)
	assert.Equal(t, FormatVersion, parsed.Version)
	assert.True(t, parsed.ExportDate.Equal(now))
	assert.True(t, parsed.Transactions[1].FarmingDetails.Quantity.Equal(decimal.RequireFromString("100.5")))
}

func TestJSON_EmptyCollectionsAreArrays(t *testing.T) {
	data, err := JSON(NewBackup(nil, nil, time.Unix(0, 0)))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `[]`, string(doc["transactions"]))
	assert.JSONEq(t, `[]`, string(doc["quickNotes"]))
}

func TestParseImport(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField string
		wantTxns  int
		wantNotes int
	}{
		{
			name:      "browser backup with numeric amounts",
			input:     `{"transactions":[{"id":"a","type":"income","description":"x","amount":1500,"category":"salary","paymentMode":"cash","date":"2024-11-05","createdAt":"2024-11-05T10:11:12.345Z"}],"quickNotes":[{"id":"q","type":"expense","amount":"12.5","description":"tea","createdAt":"2024-11-05T10:11:12.345Z"}],"version":"1.0"}`,
			wantTxns:  1,
			wantNotes: 1,
		},
		{
			name:     "quick notes missing",
			input:    `{"transactions":[]}`,
			wantTxns: 0,
		},
		{
			name:     "quick notes null",
			input:    `{"transactions":[],"quickNotes":null}`,
			wantTxns: 0,
		},
		{
			name:     "unknown vocabulary kept",
			input:    `{"transactions":[{"id":"a","type":"income","amount":1,"category":"lottery","date":"2024-01-01"}]}`,
			wantTxns: 1,
		},
		{name: "not json", input: `hello`, wantField: "file"},
		{name: "top level array", input: `[]`, wantField: "file"},
		{name: "top level null", input: `null`, wantField: "file"},
		{name: "transactions missing", input: `{"quickNotes":[]}`, wantField: "transactions"},
		{name: "transactions object", input: `{"transactions":{}}`, wantField: "transactions"},
		{name: "transactions null", input: `{"transactions":null}`, wantField: "transactions"},
		{name: "transactions of numbers", input: `{"transactions":[1,2]}`, wantField: "transactions"},
		{name: "quick notes string", input: `{"transactions":[],"quickNotes":"x"}`, wantField: "quickNotes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseImport([]byte(tt.input))
			if tt.wantField != "" {
				require.Error(t, err)
				assert.True(t, common.IsValidation(err))
				var verr *common.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Len(t, b.Transactions, tt.wantTxns)
			assert.Len(t, b.QuickNotes, tt.wantNotes)
			assert.NotNil(t, b.Transactions)
			assert.NotNil(t, b.QuickNotes)
		})
	}
}

func TestParseImport_LogsUnreadableMetadata(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	b, err := ParseImport([]byte(`{"transactions":[],"version":2,"exportDate":"last tuesday"}`))
	require.NoError(t, err)
	assert.Empty(t, b.Version)
	assert.True(t, b.ExportDate.IsZero())

	assert.Contains(t, logs.String(), "field=version")
	assert.Contains(t, logs.String(), "field=exportDate")
}

func TestParseImport_KeepsUnknownValues(t *testing.T) {
	b, err := ParseImport([]byte(`{"transactions":[{"id":"a","type":"income","amount":1,"category":"lottery","paymentMode":"upi","date":"2024-01-01"}]}`))
	require.NoError(t, err)
	require.Len(t, b.Transactions, 1)
	txn := b.Transactions[0]
	assert.Equal(t, model.Category("lottery"), txn.Category)
	assert.False(t, txn.Category.Known())
	assert.Equal(t, model.PaymentMode("upi"), txn.PaymentMode)
}
