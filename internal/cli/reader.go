package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

var (
	// ErrInputCancelled is returned when the context ends while waiting for a line.
	ErrInputCancelled = errors.New("input canceled")
	// ErrInputClosed is returned once the input has no more lines.
	ErrInputClosed = errors.New("input terminated")
)

type line struct {
	err  error
	text string
}

// LineReader reads trimmed lines from an input that may block, such as a
// terminal, without tying up the caller past its context. A single
// goroutine owns the underlying reader and hands over one line per request.
type LineReader struct {
	src     *bufio.Reader
	lines   chan line
	wanted  chan struct{}
	started sync.Once
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("cli: nil reader")
	}
	return &LineReader{
		src:    bufio.NewReader(r),
		lines:  make(chan line, 1),
		wanted: make(chan struct{}, 1),
	}
}

// ReadLine returns the next line with surrounding whitespace removed. A final
// line missing its newline still counts. A line that arrives after ctx ended
// is kept for the next call.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.started.Do(func() { go r.pump() })

	select {
	case r.wanted <- struct{}{}:
	default:
		// a request from a canceled call is still pending
	}

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l, ok := <-r.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return l.text, l.err
	}
}

func (r *LineReader) pump() {
	defer close(r.lines)
	for range r.wanted {
		text, err := r.src.ReadString('\n')
		switch {
		case err == nil:
			r.lines <- line{text: strings.TrimSpace(text)}
		case errors.Is(err, io.EOF):
			if text != "" {
				r.lines <- line{text: strings.TrimSpace(text)}
			}
			return
		default:
			r.lines <- line{err: err}
			return
		}
	}
}
