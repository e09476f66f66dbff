package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Run modes.
const (
	ModeTUI   = "tui"
	ModeStdio = "stdio"
)

// DotEnvFile is read, when present, before any environment lookup.
const DotEnvFile = ".env"

// Config defines application configuration.
type Config struct {
	Mode   string       `yaml:"mode"`
	Log    LogConfig    `yaml:"log"`
	Roster RosterConfig `yaml:"roster"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path receives logs in TUI mode. Empty discards them there.
	Path string `yaml:"path"`
}

type RosterConfig struct {
	// ImportPath is a roster file imported at startup.
	ImportPath string `yaml:"import_path"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Mode: ModeTUI,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// configPath takes precedence over KNIGHTBUS_CONFIG_PATH when non-empty. The
// result is not validated; callers apply their own overrides first and then
// call Validate.
func Load(configPath string) (Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv("KNIGHTBUS_CONFIG_PATH")
	}
	if configPath != "" {
		if err := loadFromFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if mode := os.Getenv("KNIGHTBUS_MODE"); mode != "" {
		cfg.Mode = mode
	}
	if level := os.Getenv("KNIGHTBUS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("KNIGHTBUS_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if importPath := os.Getenv("KNIGHTBUS_IMPORT_PATH"); importPath != "" {
		cfg.Roster.ImportPath = importPath
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeTUI, ModeStdio:
	default:
		return fmt.Errorf("invalid mode %q: want %s or %s", c.Mode, ModeTUI, ModeStdio)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
