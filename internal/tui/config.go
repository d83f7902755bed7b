package tui

import (
	"github.com/Veraticus/khata/internal/tui/themes"
)

// Config holds the browser's appearance.
type Config struct {
	Theme          themes.Theme
	CurrencySymbol string
	Width          int
	Height         int
}

// Option adjusts a Config.
type Option func(*Config)

func defaultConfig() Config {
	return Config{Theme: themes.Default, CurrencySymbol: "₹", Width: 100, Height: 30}
}

// WithTheme selects the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithCurrency sets the symbol drawn before amounts. An empty symbol is
// ignored.
func WithCurrency(symbol string) Option {
	return func(c *Config) {
		if symbol != "" {
			c.CurrencySymbol = symbol
		}
	}
}

// WithSize sets the starting size until the terminal reports its own.
// Non-positive dimensions are ignored.
func WithSize(width, height int) Option {
	return func(c *Config) {
		if width > 0 && height > 0 {
			c.Width, c.Height = width, height
		}
	}
}
