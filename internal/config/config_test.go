package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauern/numfield/internal/field"
	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/sched"
	"github.com/klauern/numfield/internal/util"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Check format defaults
	if cfg.Format.MinDecimalPlaces != 2 || cfg.Format.MaxDecimalPlaces != 4 {
		t.Errorf("expected decimal places 2..4, got %d..%d", cfg.Format.MinDecimalPlaces, cfg.Format.MaxDecimalPlaces)
	}
	if !cfg.Format.Default.IsEmpty() {
		t.Errorf("expected no default value, got %q", cfg.Format.Default)
	}

	// Check field defaults
	if cfg.Field.Debounce != 300*time.Millisecond {
		t.Errorf("expected Debounce to be 300ms, got %v", cfg.Field.Debounce)
	}
	if cfg.Field.SelectCooldown != 500*time.Millisecond {
		t.Errorf("expected SelectCooldown to be 500ms, got %v", cfg.Field.SelectCooldown)
	}
	if cfg.Field.InstantUpdates {
		t.Error("expected InstantUpdates to be false by default")
	}

	// Check output defaults
	if cfg.Output.Color != ColorAuto {
		t.Errorf("expected Output.Color to be 'auto', got %q", cfg.Output.Color)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			// Create a config with custom values
			cfg := Default()
			cfg.Format.Prefix = "$"
			cfg.Format.GroupDigits = true
			cfg.Format.Sign = numfmt.SignPositive
			cfg.Format.Default = numfmt.Float(0)
			cfg.Field.Debounce = 150 * time.Millisecond
			cfg.Field.InstantUpdates = true
			cfg.Output.Verbose = true

			if err := cfg.SaveToPath(configPath); err != nil {
				t.Fatalf("SaveToPath failed: %v", err)
			}

			loaded, err := LoadFromPath(configPath)
			if err != nil {
				t.Fatalf("LoadFromPath failed: %v", err)
			}

			if loaded.Format.Prefix != "$" {
				t.Errorf("expected prefix $, got %q", loaded.Format.Prefix)
			}
			if !loaded.Format.GroupDigits {
				t.Error("expected GroupDigits to be true")
			}
			if loaded.Format.Sign != numfmt.SignPositive {
				t.Errorf("expected positive sign, got %q", loaded.Format.Sign)
			}
			if !loaded.Format.Default.Equal(numfmt.Float(0)) {
				t.Errorf("expected default 0, got %q", loaded.Format.Default)
			}
			if loaded.Field.Debounce != 150*time.Millisecond {
				t.Errorf("expected Debounce 150ms, got %v", loaded.Field.Debounce)
			}
			if !loaded.Field.InstantUpdates {
				t.Error("expected InstantUpdates to be true")
			}
			if !loaded.Output.Verbose {
				t.Error("expected Verbose to be true")
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "numfield.toml")
	util.WriteFile(t, configPath, `
[format]
prefix = "€"
max_decimal_places = 2
default = "1.5"

[field]
debounce = "75ms"
select_all_on_focus = true
`)

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Format.Prefix != "€" {
		t.Errorf("expected prefix €, got %q", cfg.Format.Prefix)
	}
	if cfg.Format.MaxDecimalPlaces != 2 || cfg.Format.MinDecimalPlaces != 2 {
		t.Errorf("expected places 2..2, got %d..%d", cfg.Format.MinDecimalPlaces, cfg.Format.MaxDecimalPlaces)
	}
	if !cfg.Format.Default.Equal(numfmt.Float(1.5)) {
		t.Errorf("expected default 1.5, got %q", cfg.Format.Default)
	}
	if cfg.Field.Debounce != 75*time.Millisecond {
		t.Errorf("expected Debounce 75ms, got %v", cfg.Field.Debounce)
	}
	if !cfg.Field.SelectAllOnFocus {
		t.Error("expected SelectAllOnFocus to be true")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		check    func(*Config) bool
	}{
		{
			name:     "format prefix",
			envKey:   "NUMFIELD_FORMAT_PREFIX",
			envValue: "$",
			check:    func(c *Config) bool { return c.Format.Prefix == "$" },
		},
		{
			name:     "format suffix",
			envKey:   "NUMFIELD_FORMAT_SUFFIX",
			envValue: "%",
			check:    func(c *Config) bool { return c.Format.Suffix == "%" },
		},
		{
			name:     "format min decimals",
			envKey:   "NUMFIELD_FORMAT_MIN_DECIMALS",
			envValue: "0",
			check:    func(c *Config) bool { return c.Format.MinDecimalPlaces == 0 },
		},
		{
			name:     "format max decimals",
			envKey:   "NUMFIELD_FORMAT_MAX_DECIMALS",
			envValue: "6",
			check:    func(c *Config) bool { return c.Format.MaxDecimalPlaces == 6 },
		},
		{
			name:     "format max decimals ignores garbage",
			envKey:   "NUMFIELD_FORMAT_MAX_DECIMALS",
			envValue: "lots",
			check:    func(c *Config) bool { return c.Format.MaxDecimalPlaces == 4 },
		},
		{
			name:     "format always show decimals",
			envKey:   "NUMFIELD_FORMAT_ALWAYS_SHOW_DECIMALS",
			envValue: "yes",
			check:    func(c *Config) bool { return c.Format.AlwaysShowDecimals },
		},
		{
			name:     "format group",
			envKey:   "NUMFIELD_FORMAT_GROUP",
			envValue: "on",
			check:    func(c *Config) bool { return c.Format.GroupDigits },
		},
		{
			name:     "format integer",
			envKey:   "NUMFIELD_FORMAT_INTEGER",
			envValue: "1",
			check:    func(c *Config) bool { return c.Format.Integer },
		},
		{
			name:     "format sign",
			envKey:   "NUMFIELD_FORMAT_SIGN",
			envValue: "negative",
			check:    func(c *Config) bool { return c.Format.Sign == numfmt.SignNegative },
		},
		{
			name:     "format sign ignores garbage",
			envKey:   "NUMFIELD_FORMAT_SIGN",
			envValue: "sideways",
			check:    func(c *Config) bool { return c.Format.Sign == numfmt.SignAny },
		},
		{
			name:     "format default",
			envKey:   "NUMFIELD_FORMAT_DEFAULT",
			envValue: "42",
			check:    func(c *Config) bool { return c.Format.Default.Equal(numfmt.Float(42)) },
		},
		{
			name:     "field debounce",
			envKey:   "NUMFIELD_FIELD_DEBOUNCE",
			envValue: "1s",
			check:    func(c *Config) bool { return c.Field.Debounce == time.Second },
		},
		{
			name:     "field instant",
			envKey:   "NUMFIELD_FIELD_INSTANT",
			envValue: "true",
			check:    func(c *Config) bool { return c.Field.InstantUpdates },
		},
		{
			name:     "field select all",
			envKey:   "NUMFIELD_FIELD_SELECT_ALL",
			envValue: "true",
			check:    func(c *Config) bool { return c.Field.SelectAllOnFocus },
		},
		{
			name:     "output verbose",
			envKey:   "NUMFIELD_OUTPUT_VERBOSE",
			envValue: "true",
			check:    func(c *Config) bool { return c.Output.Verbose },
		},
		{
			name:     "output color",
			envKey:   "NUMFIELD_OUTPUT_COLOR",
			envValue: "never",
			check:    func(c *Config) bool { return c.Output.Color == ColorNever },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)

			cfg := Default()
			cfg.applyEnvironment()

			if !tt.check(cfg) {
				t.Errorf("environment override for %s did not apply correctly", tt.envKey)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"True", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"ON", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseBool(tt.input)
			if result != tt.expected {
				t.Errorf("parseBool(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"integer ignores places", func(c *Config) { c.Format.Integer = true; c.Format.MinDecimalPlaces = 9 }, false},
		{"min above max", func(c *Config) { c.Format.MinDecimalPlaces = 5 }, true},
		{"negative debounce", func(c *Config) { c.Field.Debounce = -time.Second }, true},
		{"negative cooldown", func(c *Config) { c.Field.SelectCooldown = -time.Second }, true},
		{"unknown color", func(c *Config) { c.Output.Color = "sometimes" }, true},
		{"empty color", func(c *Config) { c.Output.Color = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_WrapsSentinels(t *testing.T) {
	cfg := Default()
	cfg.Format.MinDecimalPlaces = 9
	cfg.Output.Color = "sometimes"

	err := cfg.Validate()
	if !errors.Is(err, numfmt.ErrInvalidConfig) {
		t.Errorf("expected numfmt.ErrInvalidConfig in %v", err)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid in %v", err)
	}
}

func TestFieldOptions(t *testing.T) {
	cfg := Default()
	cfg.Format.Prefix = "$"
	cfg.Field.InstantUpdates = true
	cfg.Field.Disabled = true

	clock := sched.NewManual()
	opts := cfg.FieldOptions(clock, logging.Discard())

	if opts.Format.Prefix != "$" || !opts.InstantUpdates || !opts.Disabled {
		t.Errorf("FieldOptions did not carry settings: %+v", opts)
	}
	if opts.Debounce != field.DefaultDebounce {
		t.Errorf("expected Debounce %v, got %v", field.DefaultDebounce, opts.Debounce)
	}

	f, err := field.New(numfmt.Float(12), opts, nil)
	if err != nil {
		t.Fatalf("field.New failed: %v", err)
	}
	defer f.Close()
	if f.Display() != "$12" {
		t.Errorf("expected display $12, got %q", f.Display())
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	util.SetHome(t)

	// Load should succeed with defaults
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not fail for non-existent file: %v", err)
	}

	if cfg.Field.Debounce != field.DefaultDebounce {
		t.Errorf("expected default debounce, got %v", cfg.Field.Debounce)
	}
}

func TestLoadNonExistentFileAppliesEnvironment(t *testing.T) {
	util.SetHome(t)
	t.Setenv("NUMFIELD_FORMAT_SUFFIX", " kg")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Format.Suffix != " kg" {
		t.Errorf("expected suffix override, got %q", cfg.Format.Suffix)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(configPath, []byte("invalid: yaml: content:"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath should fail for invalid YAML")
	}
}

func TestLoadInvalidDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	util.WriteFile(t, configPath, "format:\n  default: twelve\n")

	_, err := LoadFromPath(configPath)
	if !errors.Is(err, numfmt.ErrParseRejected) {
		t.Errorf("expected ErrParseRejected, got %v", err)
	}
}

func TestPartialConfigMerge(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	partialConfig := `
format:
  prefix: "$"
  group_digits: true
`
	util.WriteFile(t, configPath, partialConfig)

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	// Partial overrides should apply
	if cfg.Format.Prefix != "$" || !cfg.Format.GroupDigits {
		t.Errorf("partial format not applied: %+v", cfg.Format)
	}

	// Defaults should still be present for non-specified values
	if cfg.Format.MaxDecimalPlaces != 4 {
		t.Errorf("expected MaxDecimalPlaces to retain default 4, got %d", cfg.Format.MaxDecimalPlaces)
	}
	if cfg.Field.Debounce != field.DefaultDebounce {
		t.Errorf("expected Debounce to retain default, got %v", cfg.Field.Debounce)
	}
	if cfg.Format.Locale != numfmt.DefaultLocale() {
		t.Errorf("expected default locale, got %+v", cfg.Format.Locale)
	}
}

func TestExists(t *testing.T) {
	util.SetHome(t)

	if Exists() {
		t.Error("Exists() should return false for non-existent config")
	}

	cfg := Default()
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !Exists() {
		t.Error("Exists() should return true after saving config")
	}
}
