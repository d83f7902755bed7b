package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/khata/internal/common"
	"github.com/Veraticus/khata/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"

	// settings is resolved by initConfig before any command runs.
	settings config.Config
)

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "khata",
		Short: "📒 Personal income and expense ledger",
		Long: `khata: a small ledger for household and farm accounts.

Record income and expenses, jot down quick notes to complete later, review
monthly summaries and farming sales, and export everything to CSV or JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/khata/config.yaml)")
	cmd.PersistentFlags().String("db", "", "database file (overrides database.path)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = v.BindPFlag(config.KeyDatabasePath, cmd.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	cmd.AddCommand(addCmd())
	cmd.AddCommand(editCmd())
	cmd.AddCommand(deleteCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(summaryCmd())
	cmd.AddCommand(farmingCmd())
	cmd.AddCommand(notesCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(categoriesCmd())
	cmd.AddCommand(subcategoriesCmd())
	cmd.AddCommand(clearCmd())
	cmd.AddCommand(checkpointCmd())
	cmd.AddCommand(browseCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(v *viper.Viper, cfgFile string) error {
	if err := config.Setup(v, cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	if err := common.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	settings = cfg
	slog.Debug("Configuration loaded", "database", cfg.DatabasePath, "config", v.ConfigFileUsed())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "khata %s\n", version)
		},
	}
}
