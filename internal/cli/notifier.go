package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/khata/internal/service"
)

var _ service.Notifier = (*Notifier)(nil)

// Notifier prints ledger notifications as styled lines.
type Notifier struct {
	writer io.Writer
}

// NewNotifier creates a notifier writing to w, or stdout when w is nil.
func NewNotifier(w io.Writer) *Notifier {
	if w == nil {
		w = os.Stdout
	}
	return &Notifier{writer: w}
}

// Notify implements service.Notifier.
func (n *Notifier) Notify(message string, severity service.Severity) {
	var line string
	switch severity {
	case service.SeveritySuccess:
		line = FormatSuccess(message)
	case service.SeverityError:
		line = FormatError(message)
	case service.SeverityWarning:
		line = FormatWarning(message)
	default:
		line = FormatInfo(message)
	}

	if _, err := fmt.Fprintln(n.writer, line); err != nil {
		slog.Warn("Failed to write notification", "error", err)
	}
}
