// Package config loads Agora's runtime configuration from the environment.
//
// Every setting has a default, so an empty environment yields a working
// configuration rooted at ~/.agora. A .env file, when present, is loaded
// first; variables already set in the process environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultDotEnv is the .env file Load reads when no path is given.
const DefaultDotEnv = ".env"

// Config holds every tunable of the server and CLI.
type Config struct {
	// DataDir holds the SQLite database. Empty means ~/.agora.
	DataDir string `env:"AGORA_DATA_DIR"`
	// DBFile is the database filename inside DataDir.
	DBFile string `env:"AGORA_DB_FILE" envDefault:"agora.db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"AGORA_LOG_LEVEL" envDefault:"info"`
	// LogFile, when set, receives JSON logs in addition to stderr.
	LogFile string `env:"AGORA_LOG_FILE"`
	// MaxContentLength caps the size of a single argument's content.
	MaxContentLength int `env:"AGORA_MAX_CONTENT_LENGTH" envDefault:"8000"`
	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration `env:"AGORA_BUSY_TIMEOUT" envDefault:"5s"`
	// ListLimit is the default page size for debate listings.
	ListLimit int `env:"AGORA_LIST_LIMIT" envDefault:"20"`
}

// Load reads dotenvPath (if it exists) into the environment, then parses
// the environment into a Config and validates it.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath == "" {
		dotenvPath = DefaultDotEnv
	}
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", dotenvPath, err)
	}
	return FromEnv()
}

// FromEnv parses the process environment without touching any .env file.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration an empty environment produces.
func Default() Config {
	return Config{
		DataDir:          defaultDataDir(),
		DBFile:           "agora.db",
		LogLevel:         "info",
		MaxContentLength: 8000,
		BusyTimeout:      5 * time.Second,
		ListLimit:        20,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid AGORA_LOG_LEVEL %q: must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("AGORA_MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength)
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("AGORA_LIST_LIMIT must be positive, got %d", c.ListLimit)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("AGORA_BUSY_TIMEOUT must not be negative, got %s", c.BusyTimeout)
	}
	if strings.TrimSpace(c.DBFile) == "" {
		return fmt.Errorf("AGORA_DB_FILE must not be empty")
	}
	return nil
}

// DBPath returns the absolute location of the database file.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agora")
}
