// Package cli provides the command-line interface for numfield.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/numfield/internal/config"
	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "numfield",
		Usage:   "Format, parse and edit numbers the way a numeric text field does",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Read configuration from `FILE` (.yaml or .toml) instead of ~/.numfield/config.yaml",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// A broken config file is reported by the command that needs it.
			cfg, err := loadConfig(cmd)
			if err != nil {
				cfg = config.Default()
			}
			configureColors(cmd, cfg.Output.Color)
			logger := configureLogging(cmd, cfg.Output.Verbose)
			return logging.NewContext(ctx, logger), nil
		},
		Commands: []*cli.Command{
			formatCommand(),
			parseCommand(),
			editCommand(),
			replayCommand(),
			configCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output from the --no-color flag and the
// configured color mode. The flag wins.
func configureColors(cmd *cli.Command, mode string) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return
	}
	ui.ApplyColorMode(mode)
}

// configureLogging sets up the logging level based on CLI flags and
// installs the logger as the default.
func configureLogging(cmd *cli.Command, verbose bool) *slog.Logger {
	opts := logging.DefaultOptions()
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") || verbose {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logger.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logger
}
