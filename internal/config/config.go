package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/khata/internal/common"
	"github.com/spf13/viper"
)

// Keys understood in config.yaml and as KHATA_ environment variables, where
// dots become underscores (KHATA_DATABASE_PATH).
const (
	KeyDatabasePath    = "database.path"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyCheckpointsKeep = "checkpoints.keep"
	KeyCurrencySymbol  = "ui.currency_symbol"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "KHATA"

// Config holds the resolved settings.
type Config struct {
	DatabasePath    string
	LogLevel        string
	LogFormat       string
	CurrencySymbol  string
	CheckpointsKeep int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, filepath.Join(DataDir(), "khata.db"))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyCheckpointsKeep, 5)
	v.SetDefault(KeyCurrencySymbol, "₹")
}

// Setup points v at the config file and the environment. An explicit file
// must exist; otherwise config.yaml is looked up in ConfigDir and the
// working directory and may be absent.
func Setup(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(ExpandPath(file))
	} else {
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}
	return nil
}

// Load reads the settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath:    ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		CheckpointsKeep: v.GetInt(KeyCheckpointsKeep),
		CurrencySymbol:  v.GetString(KeyCurrencySymbol),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: %s must not be empty", common.ErrInvalidConfig, KeyDatabasePath)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, c.LogFormat)
	}
	if c.CheckpointsKeep < 1 {
		return fmt.Errorf("%w: %s must be at least 1", common.ErrInvalidConfig, KeyCheckpointsKeep)
	}
	return nil
}
