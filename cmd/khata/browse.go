package main

import (
	"strings"

	"github.com/Veraticus/khata/internal/service"
	"github.com/Veraticus/khata/internal/tui"
	"github.com/Veraticus/khata/internal/tui/themes"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and filter history in a full-screen table",
		Long: `Open an interactive table of all transactions. Cycle the month, type,
category and subcategory filters with m, t, c and s, search descriptions
with /, delete with d and switch to the farming summary with f.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Notifications would scribble over the alternate screen; the
			// browser shows its own status line.
			s, err := openSessionWith(cmd, service.Discard)
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(cmd.Context(), s.ledger,
				tui.WithTheme(themes.ByName(theme)),
				tui.WithCurrency(settings.CurrencySymbol),
			)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme ("+strings.Join(themes.Names(), ", ")+")")
	return cmd
}
