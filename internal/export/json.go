package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/model"
)

// FormatVersion is written to every JSON backup.
const FormatVersion = "1.0"

// Backup is the JSON backup document. Fields are in document order.
type Backup struct {
	Transactions []model.Transaction `json:"transactions"`
	QuickNotes   []model.QuickNote   `json:"quickNotes"`
	ExportDate   time.Time           `json:"exportDate"`
	Version      string              `json:"version"`
}

// NewBackup assembles a backup stamped with now.
func NewBackup(txns []model.Transaction, notes []model.QuickNote, now time.Time) Backup {
	if txns == nil {
		txns = []model.Transaction{}
	}
	if notes == nil {
		notes = []model.QuickNote{}
	}
	return Backup{
		Transactions: txns,
		QuickNotes:   notes,
		ExportDate:   now.UTC(),
		Version:      FormatVersion,
	}
}

// JSON renders the backup indented by two spaces.
func JSON(b Backup) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// WriteJSON writes the backup to w.
func WriteJSON(w io.Writer, b Backup) error {
	data, err := JSON(b)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// JSONFilename is the default file name for a JSON backup made on day.
func JSONFilename(day time.Time) string {
	return "khata-export-" + day.Format(model.DateLayout) + ".json"
}

// ParseImport decodes an import document. The only required shape is an
// object with an array under "transactions"; "quickNotes" may be missing or
// null. Unknown fields and unknown vocabulary values are kept as-is.
func ParseImport(data []byte) (Backup, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Backup{}, common.NewValidationError("file", "invalid file format")
	}

	rawTxns, ok := fields["transactions"]
	if !ok || !isArray(rawTxns) {
		return Backup{}, common.NewValidationError("transactions", "must be an array")
	}

	var b Backup
	if err := json.Unmarshal(rawTxns, &b.Transactions); err != nil {
		return Backup{}, common.NewValidationError("transactions", "unreadable record: "+err.Error())
	}

	b.QuickNotes = []model.QuickNote{}
	if rawNotes, ok := fields["quickNotes"]; ok && !isNull(rawNotes) {
		if !isArray(rawNotes) {
			return Backup{}, common.NewValidationError("quickNotes", "must be an array")
		}
		if err := json.Unmarshal(rawNotes, &b.QuickNotes); err != nil {
			return Backup{}, common.NewValidationError("quickNotes", "unreadable note: "+err.Error())
		}
	}

	// version and exportDate are informational; a bad value is left zero.
	decodeOptional(fields, "version", &b.Version)
	decodeOptional(fields, "exportDate", &b.ExportDate)

	if b.Transactions == nil {
		b.Transactions = []model.Transaction{}
	}
	return b, nil
}

func decodeOptional(fields map[string]json.RawMessage, key string, dst any) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Debug("ignoring unreadable import field", "field", key, "error", err)
	}
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
