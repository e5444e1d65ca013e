package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/ui/tui"
)

var errNoTerminal = errors.New("edit requires an interactive terminal")

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a value in an interactive numeric field",
		UsageText: "numfield edit [options]",
		Description: `Mount one numeric field in the terminal. Tab or enter focuses the field
   and shows the raw buffer; typing edits it and commits after the debounce
   delay; esc, tab or enter blurs it and shows the formatted value again.
   While blurred, pgup and pgdown change the upstream value the way another
   writer would. Every committed value is listed below the field. The final
   upstream value is printed on exit.

   Examples:
     numfield edit --prefix '$' --group --min-decimals 2 --max-decimals 2 --value 1234
     numfield edit --instant --select-all`,
		Flags: append(append(formatFlags(), fieldFlags()...),
			&cli.BoolFlag{
				Name:  "commits",
				Usage: "Print every committed value on exit",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !ttyAvailable() {
				return errNoTerminal
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			initial, err := numfmt.ParseValue(cmd.String("value"))
			if err != nil {
				return fmt.Errorf("invalid --value: %w", err)
			}

			logger := logging.WithContext(ctx)
			result, err := tui.RunNumericInput(initial, cfg.FieldOptions(nil, logger), cmd.Float("step"))
			if err != nil {
				return fmt.Errorf("edit session failed: %w", err)
			}
			logger.Info("edit session finished", slog.String("result", result.String()))

			if cmd.Bool("commits") {
				for _, c := range result.Commits {
					fmt.Printf("%d\t%s\t%s\n", c.Seq, valueText(c.Value), c.Display)
				}
			}
			fmt.Println(valueText(result.Value))
			return nil
		},
	}
}
