// Package export renders the ledger as CSV or JSON and parses JSON backups
// for import.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/filter"
	"github.com/Veraticus/khata/internal/model"
)

// CSVHeader is the fixed first line of every CSV export.
const CSVHeader = "Date,Type,Description,Category,Subcategory,Payment Mode,Amount (₹),Farming Quantity,Farming Unit,Sale Type,Farming Comments"

// CSV renders txns newest first. Lines are joined with "\n" and the output
// has no trailing newline. Text fields that users type are always quoted.
func CSV(txns []model.Transaction) (string, error) {
	if len(txns) == 0 {
		return "", common.ErrNothingToExport
	}

	lines := make([]string, 0, len(txns)+1)
	lines = append(lines, CSVHeader)
	for _, txn := range filter.SortNewestFirst(txns) {
		lines = append(lines, strings.Join(csvRow(txn), ","))
	}
	return strings.Join(lines, "\n"), nil
}

// WriteCSV writes the CSV export to w.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	out, err := CSV(txns)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CSVFilename is the default file name for a CSV export made on day.
func CSVFilename(day time.Time) string {
	return "khata-transactions-" + day.Format(model.DateLayout) + ".csv"
}

func csvRow(txn model.Transaction) []string {
	row := []string{
		txn.Date.String(),
		txn.Type.Label(),
		quote(txn.Description),
		txn.Category.Label(),
		quote(txn.Subcategory),
		txn.PaymentMode.Label(),
		txn.Amount.StringFixed(2),
	}

	if txn.Category == model.CategoryFarming && txn.FarmingDetails != nil {
		fd := txn.FarmingDetails
		quantity := ""
		if !fd.Quantity.IsZero() {
			quantity = fd.Quantity.String()
		}
		return append(row,
			quantity,
			string(fd.Unit),
			fd.SaleType.Label(),
			quote(fd.Comments),
		)
	}
	return append(row, "", "", "", "")
}

// quote wraps s in double quotes and doubles any quotes inside it.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
