// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
)

// Config holds every environment-driven setting.
type Config struct {
	DBPath      string  `env:"WHENINJA_DB"`
	CatalogPath string  `env:"WHENINJA_CATALOG"`
	LogFile     string  `env:"WHENINJA_LOG_FILE"`
	LogLevel    string  `env:"WHENINJA_LOG_LEVEL" envDefault:"info"`
	Theme       string  `env:"WHENINJA_THEME"`
	ChatChance  float64 `env:"WHENINJA_CHAT_CHANCE" envDefault:"0.5"`
	Lang        string  `env:"LANG"`
	ColorFGBG   string  `env:"COLORFGBG"`
}

// Load reads the given .env files (default ".env") into the environment,
// skipping missing ones, and then parses the environment. Variables that
// are already set win over .env values.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.ChatChance < 0 || c.ChatChance > 1 {
		return fmt.Errorf("WHENINJA_CHAT_CHANCE must be within [0, 1], got %v", c.ChatChance)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("WHENINJA_LOG_LEVEL: %w", err)
	}
	if c.Theme != "" && !progress.Theme(c.Theme).Valid() {
		return fmt.Errorf("WHENINJA_THEME must be light or dark, got %q", c.Theme)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// DefaultSettings returns the settings a fresh record starts with.
func (c Config) DefaultSettings() progress.Settings {
	return progress.Settings{
		Language: locale.Detect(c.Lang),
		Theme:    progress.DetectTheme(c.Theme, c.ColorFGBG),
	}
}

// ChatChanceOption converts the configured chance into the controller's
// convention, where zero selects the default and negative disables chats.
func (c Config) ChatChanceOption() float64 {
	if c.ChatChance == 0 {
		return -1
	}
	return c.ChatChance
}

// LogPath resolves the log file path in priority order:
// 1. WHENINJA_LOG_FILE
// 2. $XDG_STATE_HOME/wheninja/wheninja.log
// 3. ~/.local/state/wheninja/wheninja.log
func (c Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "wheninja", "wheninja.log"), nil
}
