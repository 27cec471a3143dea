package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".shpure.yaml"

// Config holds all shpure configuration.
type Config struct {
	Purify    PurifyConfig    `yaml:"purify"`
	TypeCheck TypeCheckConfig `yaml:"type_check"`
	Logging   LoggingConfig   `yaml:"logging"`
	Batch     BatchConfig     `yaml:"batch"`
}

// PurifyConfig configures the generator.
type PurifyConfig struct {
	IdempotentCommands bool   `yaml:"idempotent_commands"` // mkdir -p, rm -f, ln -sf
	Indent             string `yaml:"indent"`
}

// TypeCheckConfig configures the gradual type checker.
type TypeCheckConfig struct {
	Strict           bool `yaml:"strict"`
	WarningsAsErrors bool `yaml:"warnings_as_errors"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// BatchConfig configures multi-file runs.
type BatchConfig struct {
	Workers int `yaml:"workers"` // scripts purified in parallel
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Purify: PurifyConfig{
			IdempotentCommands: true,
			Indent:             "    ",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("SHPURE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if strict, err := strconv.ParseBool(os.Getenv("SHPURE_STRICT")); err == nil {
		c.TypeCheck.Strict = strict
	}
	if workers, err := strconv.Atoi(os.Getenv("SHPURE_WORKERS")); err == nil && workers > 0 {
		c.Batch.Workers = workers
	}
	if indent := os.Getenv("SHPURE_INDENT"); indent != "" {
		c.Purify.Indent = indentFrom(indent)
	}
}

// indentFrom accepts a number of spaces, "tab", or literal indentation
func indentFrom(s string) string {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return strings.Repeat(" ", n)
	}
	if s == "tab" {
		return "\t"
	}
	return s
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	valid := false
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if strings.Trim(c.Purify.Indent, " \t") != "" {
		return fmt.Errorf("purify.indent must be spaces or tabs, got %q", c.Purify.Indent)
	}
	return nil
}
