package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/progress"
	"github.com/klauern/numfield/internal/replay"
	"github.com/klauern/numfield/internal/util"
)

// Replay output formats.
const (
	outputText = "text"
	outputYAML = "yaml"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Run scripted field sessions on virtual time",
		UsageText: "numfield replay [options] <script.yaml>...",
		Description: `Replay focus, typing, waits and upstream changes against one field and
   print what it displayed and committed. Scripts that are not found
   relative to the working directory are looked up in ~/.numfield/scripts.

   Examples:
     numfield replay currency_entry.yaml
     numfield replay --output yaml currency_entry.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   outputText,
				Usage:   "Transcript format (text, yaml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return errors.New("replay requires at least one script")
			}
			output := cmd.String("output")
			if output != outputText && output != outputYAML {
				return fmt.Errorf("invalid output format %q (use text or yaml)", output)
			}

			logger := logging.WithContext(ctx)
			enc := yaml.NewEncoder(os.Stdout)
			defer func() { _ = enc.Close() }()

			var bar *progress.Bar
			if len(paths) > 1 {
				bar = progress.New(progress.Options{
					Max:         len(paths),
					Description: "replaying",
					Logger:      logger,
				})
				defer bar.Finish()
			}

			for _, path := range paths {
				script, err := replay.LoadScript(resolveScript(path))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				result, err := replay.Run(ctx, script, logger)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Info("replayed script",
					logging.Path(path),
					logging.Value(valueText(result.Final)))
				if bar != nil {
					bar.Step(path)
				}

				if output == outputYAML {
					if err := enc.Encode(result); err != nil {
						return fmt.Errorf("failed to encode transcript: %w", err)
					}
					continue
				}
				if err := result.WriteText(os.Stdout); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// resolveScript expands ~ and falls back to the scripts directory when path
// does not exist as given.
func resolveScript(path string) string {
	expanded := util.ExpandPath(path, "")
	if _, err := os.Stat(expanded); err == nil {
		return expanded
	}
	candidate := util.ExpandPath(path, util.ScriptsDir())
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return expanded
}
