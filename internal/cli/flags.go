package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/numfield/internal/config"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/util"
)

// formatFlags override the Format Configuration of the loaded config.
func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "integer",
			Usage: "Disallow decimal places",
		},
		&cli.BoolFlag{
			Name:  "positive-only",
			Usage: "Force values to be positive",
		},
		&cli.BoolFlag{
			Name:  "negative-only",
			Usage: "Force values to be negative",
		},
		&cli.IntFlag{
			Name:  "min-decimals",
			Usage: "Decimal places values collapse to when nothing is lost",
		},
		&cli.IntFlag{
			Name:  "max-decimals",
			Usage: "Maximum decimal places; extra precision is rounded",
		},
		&cli.BoolFlag{
			Name:  "always-show-decimals",
			Usage: "Keep min-decimals places on whole numbers",
		},
		&cli.BoolFlag{
			Name:    "group",
			Aliases: []string{"comma-separator"},
			Usage:   "Group thousands in the integer part",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Text placed before the number (after a minus sign)",
		},
		&cli.StringFlag{
			Name:  "suffix",
			Usage: "Text placed after the number",
		},
		&cli.StringFlag{
			Name:  "default",
			Usage: "Fallback `VALUE` for input that is not a number (\"null\" for none)",
		},
		&cli.StringFlag{
			Name:  "group-separator",
			Usage: "Thousands separator used for display",
		},
		&cli.StringFlag{
			Name:  "decimal-separator",
			Usage: "Decimal separator used for display",
		},
	}
}

// fieldFlags override the controller settings of the loaded config.
func fieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "value",
			Usage: "Initial upstream `VALUE`",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Quiet period before a typed value is committed",
		},
		&cli.BoolFlag{
			Name:  "instant",
			Usage: "Commit on every keystroke",
		},
		&cli.BoolFlag{
			Name:  "select-all",
			Usage: "Select the buffer when the field gains focus",
		},
		&cli.BoolFlag{
			Name:  "disabled",
			Usage: "Make the field read-only",
		},
		&cli.FloatFlag{
			Name:  "step",
			Value: 1,
			Usage: "Amount pgup/pgdown change the upstream value by",
		},
	}
}

// loadConfig reads the --config file, or the default config file when the
// flag is not set.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadFromPath(util.ExpandPath(path, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveConfig loads the configuration, applies every flag the user set and
// validates the result.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyFormatFlags(cmd, &cfg.Format); err != nil {
		return nil, err
	}
	applyFieldFlags(cmd, &cfg.Field)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFormatFlags(cmd *cli.Command, opts *numfmt.Options) error {
	if cmd.IsSet("integer") {
		opts.Integer = cmd.Bool("integer")
	}
	if cmd.IsSet("positive-only") || cmd.IsSet("negative-only") {
		sign, err := numfmt.SignFromFlags(cmd.Bool("positive-only"), cmd.Bool("negative-only"))
		if err != nil {
			return err
		}
		opts.Sign = sign
	}
	if cmd.IsSet("min-decimals") {
		opts.MinDecimalPlaces = int(cmd.Int("min-decimals"))
	}
	if cmd.IsSet("max-decimals") {
		opts.MaxDecimalPlaces = int(cmd.Int("max-decimals"))
	}
	if cmd.IsSet("always-show-decimals") {
		opts.AlwaysShowDecimals = cmd.Bool("always-show-decimals")
	}
	if cmd.IsSet("group") {
		opts.GroupDigits = cmd.Bool("group")
	}
	if cmd.IsSet("prefix") {
		opts.Prefix = cmd.String("prefix")
	}
	if cmd.IsSet("suffix") {
		opts.Suffix = cmd.String("suffix")
	}
	if cmd.IsSet("default") {
		v, err := numfmt.ParseValue(cmd.String("default"))
		if err != nil {
			return fmt.Errorf("invalid --default: %w", err)
		}
		opts.Default = v
	}
	if cmd.IsSet("group-separator") {
		opts.Locale.GroupSeparator = cmd.String("group-separator")
	}
	if cmd.IsSet("decimal-separator") {
		opts.Locale.DecimalSeparator = cmd.String("decimal-separator")
	}
	return nil
}

func applyFieldFlags(cmd *cli.Command, fc *config.FieldConfig) {
	if cmd.IsSet("debounce") {
		fc.Debounce = cmd.Duration("debounce")
	}
	if cmd.IsSet("instant") {
		fc.InstantUpdates = cmd.Bool("instant")
	}
	if cmd.IsSet("select-all") {
		fc.SelectAllOnFocus = cmd.Bool("select-all")
	}
	if cmd.IsSet("disabled") {
		fc.Disabled = cmd.Bool("disabled")
	}
}

// valueText renders a committed value, with "null" for Empty.
func valueText(v numfmt.Value) string {
	if v.IsEmpty() {
		return "null"
	}
	return v.String()
}
