// Package ofx converts OFX/QFX bank and credit card statements into
// transaction inputs.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/khata/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	// Some banks emit <SEVERITY>Info instead of INFO.
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at the end of a line that lost their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// channelPrefixes are payment rails banks put in front of the merchant name.
var channelPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"VISA PURCHASE ",
	"DEBIT PURCHASE ",
	"ACH DEBIT ",
	"ACH CREDIT ",
	"UPI/",
	"NEFT/",
	"IMPS/",
	"RTGS/",
}

// genericNames carry no merchant information, so MEMO is preferred.
var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// statement is the part of a bank or card statement the parser needs.
type statement struct {
	account string
	lines   []ofxgo.Transaction
}

func (p *Parser) statements(reader io.Reader) ([]statement, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	content := strings.TrimLeft(string(raw), " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	resp, err := ofxgo.ParseResponse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var stmts []statement
	for _, msg := range resp.Bank {
		if s, ok := msg.(*ofxgo.StatementResponse); ok {
			stmts = append(stmts, statement{account: string(s.BankAcctFrom.AcctID), lines: tranList(s.BankTranList)})
		}
	}
	for _, msg := range resp.CreditCard {
		if s, ok := msg.(*ofxgo.CCStatementResponse); ok {
			stmts = append(stmts, statement{account: string(s.CCAcctFrom.AcctID), lines: tranList(s.BankTranList)})
		}
	}
	return stmts, nil
}

func tranList(l *ofxgo.TransactionList) []ofxgo.Transaction {
	if l == nil {
		return nil
	}
	return l.Transactions
}

// ParseFile returns one input per statement line. Credits become other
// income and debits other expense, paid digitally. Zero-amount lines are
// skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.TransactionInput, error) {
	stmts, err := p.statements(reader)
	if err != nil {
		return nil, err
	}

	var inputs []model.TransactionInput
	skipped := 0
	for _, stmt := range stmts {
		for _, tx := range stmt.lines {
			if in, ok := p.convertTransaction(tx); ok {
				inputs = append(inputs, in)
			} else {
				skipped++
			}
		}
	}

	slog.InfoContext(ctx, "Parsed OFX file",
		"statements", len(stmts),
		"transactions", len(inputs),
		"skipped", skipped)
	return inputs, nil
}

// convertTransaction maps one statement line. OFX amounts are negative for
// money leaving the account.
func (p *Parser) convertTransaction(tx ofxgo.Transaction) (model.TransactionInput, bool) {
	amount := decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2)
	if amount.IsZero() {
		return model.TransactionInput{}, false
	}

	in := model.TransactionInput{
		Type:        model.TypeIncome,
		Category:    model.CategoryOtherIncome,
		Description: p.extractMerchantName(tx),
		Amount:      amount.Abs(),
		PaymentMode: model.PaymentDigital,
		Date:        model.DateOf(tx.DtPosted.Time),
	}
	if amount.IsNegative() {
		in.Type, in.Category = model.TypeExpense, model.CategoryOtherExpense
	}

	switch tx.TrnType {
	case ofxgo.TrnTypeInt, ofxgo.TrnTypeDiv:
		if in.Type == model.TypeIncome {
			in.Category = model.CategoryInvestment
		}
	case ofxgo.TrnTypeATM:
		in.PaymentMode = model.PaymentCash
	}

	if in.Description == "" && tx.CheckNum != "" {
		in.Description = "Check " + string(tx.CheckNum)
	}
	if len(in.Description) > model.MaxDescriptionLength {
		in.Description = in.Description[:model.MaxDescriptionLength]
	}
	return in, true
}

// extractMerchantName picks the most readable name for a line: PAYEE, then
// NAME unless it is generic, then MEMO. Channel prefixes and a leading
// MM/DD are stripped.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range channelPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}

// GetAccounts returns the distinct account ids in the file, sorted.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	stmts, err := p.statements(reader)
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, s := range stmts {
		if s.account != "" {
			accounts = append(accounts, s.account)
		}
	}
	slices.Sort(accounts)
	return slices.Compact(accounts), nil
}
