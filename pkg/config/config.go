// Package config loads txbuilder settings from a .env file and the environment.
//
// Values are read in increasing order of precedence: built-in defaults, the
// .env file, the process environment. Command-line flags are applied on top
// by the caller. A variable that is empty or blank counts as unset in both
// sources, so it never hides a lower-precedence value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/suffix-labs/ledger-txbuilder/pkg/alias"
	"github.com/suffix-labs/ledger-txbuilder/pkg/crypto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variable names.
const (
	EnvAliasURL     = "TXBUILDER_ALIAS_URL"
	EnvAliasTimeout = "TXBUILDER_ALIAS_TIMEOUT"
	EnvHash         = "TXBUILDER_HASH"
	EnvLogLevel     = "TXBUILDER_LOG_LEVEL"
	EnvLogFormat    = "TXBUILDER_LOG_FORMAT"
)

// DefaultEnvFile is read when no file is named explicitly. It may be absent.
const DefaultEnvFile = ".env"

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds the resolved settings.
type Config struct {
	AliasURL     string        // Base URL of the alias lookup service; empty disables alias payments
	AliasTimeout time.Duration // Per-lookup HTTP timeout
	Hash         string        // Output digest name, see crypto.DigesterByName
	LogLevel     string        // debug, info, warn or error
	LogFormat    string        // console or json
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		AliasTimeout: alias.DefaultTimeout,
		Hash:         crypto.DigestSHA256,
		LogLevel:     "info",
		LogFormat:    FormatConsole,
	}
}

// Load reads envFile (or DefaultEnvFile when empty) and the process environment.
//
// A missing DefaultEnvFile is not an error; a missing explicitly named file is.
func Load(envFile string) (*Config, error) {
	return LoadFrom(envFile, os.LookupEnv)
}

// LoadFrom is Load with an injectable environment lookup.
func LoadFrom(envFile string, lookupEnv func(string) (string, bool)) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	fileValues, err := godotenv.Read(envFile)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading environment file %s: %w", envFile, err)
		}
		fileValues = map[string]string{}
	}

	get := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
		if v := strings.TrimSpace(fileValues[key]); v != "" {
			return v, true
		}
		return "", false
	}

	cfg := Default()
	if v, ok := get(EnvAliasURL); ok {
		cfg.AliasURL = v
	}
	if v, ok := get(EnvAliasTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvAliasTimeout, err)
		}
		cfg.AliasTimeout = d
	}
	if v, ok := get(EnvHash); ok {
		cfg.Hash = strings.ToLower(v)
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFormat); ok {
		cfg.LogFormat = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.AliasTimeout <= 0 {
		return fmt.Errorf("alias timeout must be positive, got %s", c.AliasTimeout)
	}
	if _, err := crypto.DigesterByName(c.Hash); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.LogFormat {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q (want %s or %s)", c.LogFormat, FormatConsole, FormatJSON)
	}
	return nil
}

// Digester returns the configured output digest.
func (c *Config) Digester() (crypto.Digester, error) {
	return crypto.DigesterByName(c.Hash)
}

// NewLogger builds the logger described by LogLevel and LogFormat.
//
// Console logs go to stderr in development encoding; JSON logs use the
// production encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var zc zap.Config
	if c.LogFormat == FormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build(zap.AddStacktrace(zapcore.FatalLevel))
}
