// Package config provides configuration management for numfield.
// It supports YAML and TOML configuration files, environment variables, and sensible defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/numfield/internal/field"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/sched"
	"github.com/klauern/numfield/internal/util"
	"github.com/klauern/numfield/internal/validation"
)

// ErrInvalid marks configuration values that can never work.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete numfield configuration.
type Config struct {
	// Format is the Format Configuration shared by every command
	Format numfmt.Options `yaml:"format" toml:"format"`

	// Field configures the synchronization controller
	Field FieldConfig `yaml:"field" toml:"field"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`
}

// FieldConfig holds controller timing and interaction settings.
type FieldConfig struct {
	// Debounce is the quiet period before a typed value is committed
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
	// InstantUpdates commits on every keystroke
	InstantUpdates bool `yaml:"instant_updates" toml:"instant_updates"`
	// SelectAllOnFocus selects the buffer when the field gains focus
	SelectAllOnFocus bool `yaml:"select_all_on_focus" toml:"select_all_on_focus"`
	// SelectCooldown suppresses select-all right after a blur
	SelectCooldown time.Duration `yaml:"select_cooldown" toml:"select_cooldown"`
	// Disabled makes the field read-only
	Disabled bool `yaml:"disabled" toml:"disabled"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Color modes accepted by OutputConfig.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Format: numfmt.DefaultOptions(),
		Field: FieldConfig{
			Debounce:       field.DefaultDebounce,
			SelectCooldown: field.DefaultSelectCooldown,
		},
		Output: OutputConfig{
			Color:   ColorAuto,
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults with environment overrides
			cfg = Default()
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are decoded as TOML; anything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path, as TOML when the
// path ends in .toml and YAML otherwise.
func (c *Config) SaveToPath(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := c.Marshal(isTOML(path))
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes the configuration as YAML, or TOML when asTOML is set.
func (c *Config) Marshal(asTOML bool) ([]byte, error) {
	if !asTOML {
		return yaml.Marshal(c)
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c.tomlView()); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// tomlView renders durations as strings, which the TOML decoder reads back.
func (c *Config) tomlView() map[string]any {
	return map[string]any{
		"format": c.Format,
		"field": map[string]any{
			"debounce":            c.Field.Debounce.String(),
			"instant_updates":     c.Field.InstantUpdates,
			"select_all_on_focus": c.Field.SelectAllOnFocus,
			"select_cooldown":     c.Field.SelectCooldown.String(),
			"disabled":            c.Field.Disabled,
		},
		"output": c.Output,
	}
}

// Validate reports every setting that can never work.
func (c *Config) Validate() error {
	result := validation.NewResult()
	if err := c.Format.Validate(); err != nil {
		result.AddError(err)
	}
	if c.Field.Debounce < 0 {
		result.Fail("field.debounce", "must not be negative", ErrInvalid)
	}
	if c.Field.SelectCooldown < 0 {
		result.Fail("field.select_cooldown", "must not be negative", ErrInvalid)
	}
	switch c.Output.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		result.Fail("output.color", fmt.Sprintf("unknown mode %q (want auto, always or never)", c.Output.Color), ErrInvalid)
	}
	return result.Error()
}

// FieldOptions builds controller options from the configuration.
func (c *Config) FieldOptions(s sched.Scheduler, logger *slog.Logger) field.Options {
	return field.Options{
		Format:           c.Format,
		Debounce:         c.Field.Debounce,
		InstantUpdates:   c.Field.InstantUpdates,
		SelectAllOnFocus: c.Field.SelectAllOnFocus,
		SelectCooldown:   c.Field.SelectCooldown,
		Disabled:         c.Field.Disabled,
		Scheduler:        s,
		Logger:           logger,
	}
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern NUMFIELD_<SECTION>_<KEY>.
// Values that do not parse are ignored.
func (c *Config) applyEnvironment() {
	// Format settings
	if v := os.Getenv("NUMFIELD_FORMAT_PREFIX"); v != "" {
		c.Format.Prefix = v
	}
	if v := os.Getenv("NUMFIELD_FORMAT_SUFFIX"); v != "" {
		c.Format.Suffix = v
	}
	if v := os.Getenv("NUMFIELD_FORMAT_MIN_DECIMALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Format.MinDecimalPlaces = n
		}
	}
	if v := os.Getenv("NUMFIELD_FORMAT_MAX_DECIMALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Format.MaxDecimalPlaces = n
		}
	}
	if v := os.Getenv("NUMFIELD_FORMAT_ALWAYS_SHOW_DECIMALS"); v != "" {
		c.Format.AlwaysShowDecimals = parseBool(v)
	}
	if v := os.Getenv("NUMFIELD_FORMAT_GROUP"); v != "" {
		c.Format.GroupDigits = parseBool(v)
	}
	if v := os.Getenv("NUMFIELD_FORMAT_INTEGER"); v != "" {
		c.Format.Integer = parseBool(v)
	}
	if v := os.Getenv("NUMFIELD_FORMAT_SIGN"); v != "" {
		if s, err := numfmt.ParseSignConstraint(v); err == nil {
			c.Format.Sign = s
		}
	}
	if v := os.Getenv("NUMFIELD_FORMAT_DEFAULT"); v != "" {
		if d, err := numfmt.ParseValue(v); err == nil {
			c.Format.Default = d
		}
	}

	// Field settings
	if v := os.Getenv("NUMFIELD_FIELD_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Field.Debounce = d
		}
	}
	if v := os.Getenv("NUMFIELD_FIELD_INSTANT"); v != "" {
		c.Field.InstantUpdates = parseBool(v)
	}
	if v := os.Getenv("NUMFIELD_FIELD_SELECT_ALL"); v != "" {
		c.Field.SelectAllOnFocus = parseBool(v)
	}

	// Output settings
	if v := os.Getenv("NUMFIELD_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("NUMFIELD_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
