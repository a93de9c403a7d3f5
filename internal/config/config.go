// Package config holds the CLI defaults that come from the environment
// and optional .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvOutDir    = "SYMGEN_OUT_DIR"
	EnvOverwrite = "SYMGEN_OVERWRITE"
	EnvLogLevel  = "SYMGEN_LOG_LEVEL"
	EnvLogFormat = "SYMGEN_LOG_FORMAT"
)

type Config struct {
	OutDir    string
	Overwrite bool
	LogLevel  string
	LogFormat string
}

// Defaults is the configuration when nothing is set.
func Defaults() Config {
	return Config{OutDir: ".", Overwrite: true, LogLevel: "info", LogFormat: "text"}
}

// Load reads the given .env files, or ./.env when none are given, and
// then the environment. Missing files are ignored and variables already
// set in the environment win over the files.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a configuration from getenv, falling back to Defaults
// for unset variables.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Defaults()
	c.OutDir = firstNonEmpty(strings.TrimSpace(getenv(EnvOutDir)), c.OutDir)
	c.LogLevel = strings.ToLower(firstNonEmpty(strings.TrimSpace(getenv(EnvLogLevel)), c.LogLevel))
	c.LogFormat = strings.ToLower(firstNonEmpty(strings.TrimSpace(getenv(EnvLogFormat)), c.LogFormat))
	if raw := strings.TrimSpace(getenv(EnvOverwrite)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvOverwrite, raw, err)
		}
		c.Overwrite = v
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the log settings, the only values with a fixed set of
// options.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
