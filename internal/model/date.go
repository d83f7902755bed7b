package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout used in storage and exports.
const DateLayout = "2006-01-02"

// MonthLayout is the layout of month keys such as "2024-11".
const MonthLayout = "2006-01"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" date. Longer timestamps are accepted and
// cut to their date part.
func ParseDate(s string) (Date, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String returns the date as "YYYY-MM-DD", or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the "YYYY-MM" month the date falls in.
func (d Date) MonthKey() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(MonthLayout)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" strings, full timestamps, "" and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseMonth validates a "YYYY-MM" month key.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t, nil
}

// FormatMonth renders a "YYYY-MM" key as "November 2024". Keys that do not
// parse are returned unchanged.
func FormatMonth(monthKey string) string {
	t, err := ParseMonth(monthKey)
	if err != nil {
		return monthKey
	}
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}
