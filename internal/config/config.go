// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Ledger backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all runtime settings. A .env file, if present, is loaded
// into the environment by main before Load runs.
type Config struct {
	Addr         string `env:"DECRYPTION_ADDR"       envDefault:"127.0.0.1:5175"`
	LogLevel     string `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT"            envDefault:"pretty"`
	ClientOrigin string `env:"CLIENT_ORIGIN"         envDefault:"http://localhost:5173"`

	WordsDir    string   `env:"DECRYPTION_WORDS_DIR"`
	CustomWords []string `env:"DECRYPTION_CUSTOM_WORDS" envSeparator:","`

	LedgerBackend string `env:"DECRYPTION_LEDGER_BACKEND" envDefault:"file"`
	LedgerPath    string `env:"DECRYPTION_LEDGER_PATH"    envDefault:"./data/scores.json"`

	// Seed fixes the random source; zero means seed from crypto/rand.
	Seed      uint64 `env:"DECRYPTION_SEED"`
	Daily     bool   `env:"DECRYPTION_DAILY"`
	DailySalt string `env:"DECRYPTION_DAILY_SALT" envDefault:"local_dev_salt"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations env tags cannot express.
func (c Config) Validate() error {
	switch c.LedgerBackend {
	case BackendFile, BackendSQLite:
		if c.LedgerPath == "" {
			return errors.New("config: DECRYPTION_LEDGER_PATH is required for the " + c.LedgerBackend + " backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown ledger backend %q", c.LedgerBackend)
	}
	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.Daily && len(c.DailySalt) > 64 {
		return errors.New("config: DECRYPTION_DAILY_SALT must be at most 64 bytes")
	}
	return nil
}
