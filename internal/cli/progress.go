package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Progress draws a bar on stderr while statements are read.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a bar of total steps labelled description.
func NewProgress(w io.Writer, total int, description string) *Progress {
	return &Progress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("[yellow]"+description+"[reset]"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "▕",
			BarEnd:        "▏",
		}),
		progressbar.OptionOnCompletion(func() {
			_, err := fmt.Fprintln(w)
			warnProgress("end line", err)
		}),
	)}
}

// Step advances the bar by one.
func (p *Progress) Step() { warnProgress("step", p.bar.Add(1)) }

// Done fills the bar.
func (p *Progress) Done() { warnProgress("finish", p.bar.Finish()) }

func warnProgress(action string, err error) {
	if err != nil {
		slog.Warn("Progress bar write failed", "action", action, "error", err)
	}
}
