package ofx

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/khata/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusOK = "<STATUS>\n<CODE>0\n<SEVERITY>INFO\n</STATUS>\n"

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20241215093000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

type stmtLine struct {
	kind, posted, amount, fitid, name, extra string
}

func (l stmtLine) String() string {
	return fmt.Sprintf("<STMTTRN>\n<TRNTYPE>%s\n<DTPOSTED>%s120000[0:GMT]\n<TRNAMT>%s\n<FITID>%s\n%s<NAME>%s\n</STMTTRN>\n",
		l.kind, l.posted, l.amount, l.fitid, l.extra, l.name)
}

func renderTranList(lines []stmtLine) string {
	var b strings.Builder
	b.WriteString("<BANKTRANLIST>\n<DTSTART>20241101120000[0:GMT]\n<DTEND>20241130120000[0:GMT]\n")
	for _, l := range lines {
		b.WriteString(l.String())
	}
	b.WriteString("</BANKTRANLIST>\n")
	return b.String()
}

// savingsStatement renders a bank statement for account 50100234567.
func savingsStatement(lines ...stmtLine) string {
	return ofxHeader + `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
` + statusOK + `<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>HDFC0001234
<ACCTID>50100234567
<ACCTTYPE>SAVINGS
</BANKACCTFROM>
` + renderTranList(lines) + `<LEDGERBAL>
<BALAMT>81250.00
<DTASOF>20241130120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`
}

// cardStatement renders a credit card statement for card 4629870012345678.
func cardStatement(lines ...stmtLine) string {
	return ofxHeader + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>2
` + statusOK + `<CCSTMTRS>
<CURDEF>INR
<CCACCTFROM>
<ACCTID>4629870012345678
</CCACCTFROM>
` + renderTranList(lines) + `<LEDGERBAL>
<BALAMT>-3120.00
<DTASOF>20241130120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`
}

var savingsLines = []stmtLine{
	{kind: "DEBIT", posted: "20241103", amount: "-1240.50", fitid: "S1", name: "UPI/KISAN SEVA KENDRA"},
	{kind: "DEBIT", posted: "20241106", amount: "-640.00", fitid: "S2", name: "POS PURCHASE RELIANCE FRESH"},
	{kind: "CHECK", posted: "20241109", amount: "-15000.00", fitid: "S3", name: "CHQ 000482 TRACTOR EMI", extra: "<CHECKNUM>000482\n"},
	{kind: "CREDIT", posted: "20241101", amount: "62000.00", fitid: "S4", name: "NEFT/ACME SALARY NOV"},
	{kind: "INT", posted: "20241130", amount: "318.40", fitid: "S5", name: "SAVINGS INTEREST"},
	{kind: "ATM", posted: "20241115", amount: "-5000.00", fitid: "S6", name: "ATM WDL MG ROAD"},
	{kind: "OTHER", posted: "20241130", amount: "0.00", fitid: "S7", name: "BALANCE ENQUIRY"},
}

var cardLines = []stmtLine{
	{kind: "DEBIT", posted: "20241112", amount: "-2499.00", fitid: "C1", name: "AMAZON PAY INDIA"},
	{kind: "DEBIT", posted: "20241120", amount: "-621.00", fitid: "C2", name: "IRCTC TICKETING"},
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{name: "savings statement skips zero lines", data: savingsStatement(savingsLines...), want: 6},
		{name: "card statement", data: cardStatement(cardLines...), want: 2},
		{name: "blank lines before header", data: "\r\n\n  " + cardStatement(cardLines...), want: 2},
		{name: "statement without lines", data: savingsStatement(), want: 0},
		{name: "not ofx", data: "date,amount\n2024-11-01,100", wantErr: true},
		{name: "empty", data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, err := NewParser().ParseFile(context.Background(), strings.NewReader(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, inputs, tt.want)
		})
	}
}

func TestParseFile_MapsSavingsLines(t *testing.T) {
	inputs, err := NewParser().ParseFile(context.Background(), strings.NewReader(savingsStatement(savingsLines...)))
	require.NoError(t, err)
	require.Len(t, inputs, 6)

	fertiliser := inputs[0]
	assert.Equal(t, model.TypeExpense, fertiliser.Type)
	assert.Equal(t, model.CategoryOtherExpense, fertiliser.Category)
	assert.Equal(t, model.PaymentDigital, fertiliser.PaymentMode)
	assert.Equal(t, "KISAN SEVA KENDRA", fertiliser.Description)
	assert.Equal(t, "1240.5", fertiliser.Amount.String())
	assert.Equal(t, "2024-11-03", fertiliser.Date.String())

	assert.Equal(t, "RELIANCE FRESH", inputs[1].Description)
	assert.True(t, inputs[2].Amount.Equal(decimal.NewFromInt(15000)))

	salary := inputs[3]
	assert.Equal(t, model.TypeIncome, salary.Type)
	assert.Equal(t, model.CategoryOtherIncome, salary.Category)
	assert.Equal(t, "ACME SALARY NOV", salary.Description)

	assert.Equal(t, model.CategoryInvestment, inputs[4].Category)
	assert.Equal(t, model.PaymentCash, inputs[5].PaymentMode)

	for _, in := range inputs {
		assert.NoError(t, in.Validate(), in.Description)
	}
}

func TestParseFile_MapsCardLines(t *testing.T) {
	inputs, err := NewParser().ParseFile(context.Background(), strings.NewReader(cardStatement(cardLines...)))
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "AMAZON PAY INDIA", inputs[0].Description)
	assert.Equal(t, "2499", inputs[0].Amount.String())
	assert.Equal(t, model.TypeExpense, inputs[1].Type)
	assert.Equal(t, "2024-11-20", inputs[1].Date.String())
}

func TestConvertTransaction_TruncatesLongNames(t *testing.T) {
	tx := ofxgo.Transaction{
		Name:     ofxgo.String(strings.Repeat("X", model.MaxDescriptionLength+20)),
		DtPosted: ofxgo.Date{Time: time.Date(2024, 11, 2, 12, 0, 0, 0, time.UTC)},
	}
	tx.TrnAmt.SetInt64(-10)

	in, ok := NewParser().convertTransaction(tx)
	require.True(t, ok)
	assert.Len(t, in.Description, model.MaxDescriptionLength)
	assert.Equal(t, "2024-11-02", in.Date.String())
}

func TestConvertTransaction_SkipsZero(t *testing.T) {
	_, ok := NewParser().convertTransaction(ofxgo.Transaction{Name: "BALANCE ENQUIRY"})
	assert.False(t, ok)
}

func TestExtractMerchantName(t *testing.T) {
	p := NewParser()
	cases := map[string]struct {
		tx   ofxgo.Transaction
		want string
	}{
		"pos prefix":         {ofxgo.Transaction{Name: "POS PURCHASE DMART"}, "DMART"},
		"upi prefix":         {ofxgo.Transaction{Name: "UPI/KISAN SEVA KENDRA"}, "KISAN SEVA KENDRA"},
		"imps prefix":        {ofxgo.Transaction{Name: "IMPS/RAMESH"}, "RAMESH"},
		"clean name":         {ofxgo.Transaction{Name: "IRCTC TICKETING"}, "IRCTC TICKETING"},
		"whitespace":         {ofxgo.Transaction{Name: "  SWIGGY  "}, "SWIGGY"},
		"leading date":       {ofxgo.Transaction{Name: "11/15 APMC YARD"}, "APMC YARD"},
		"memo over generic":  {ofxgo.Transaction{Name: "DEBIT", Memo: "Mandi fees"}, "Mandi fees"},
		"memo ignored":       {ofxgo.Transaction{Name: "BIG BAZAAR", Memo: "groceries"}, "BIG BAZAAR"},
		"payee always first": {ofxgo.Transaction{Name: "DEBIT", Payee: &ofxgo.Payee{Name: "Seed Depot"}}, "Seed Depot"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.extractMerchantName(tc.tx))
		})
	}
}

func TestGetAccounts(t *testing.T) {
	p := NewParser()
	ctx := context.Background()

	accounts, err := p.GetAccounts(ctx, strings.NewReader(savingsStatement(savingsLines...)))
	require.NoError(t, err)
	assert.Equal(t, []string{"50100234567"}, accounts)

	accounts, err = p.GetAccounts(ctx, strings.NewReader(cardStatement()))
	require.NoError(t, err)
	assert.Equal(t, []string{"4629870012345678"}, accounts)

	_, err = p.GetAccounts(ctx, strings.NewReader("nope"))
	assert.Error(t, err)
}
