package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/klauern/numfield/internal/logging"
	"github.com/klauern/numfield/internal/numfmt"
	"github.com/klauern/numfield/internal/ui"
)

// Terminal probes, replaced in tests.
var (
	stdin           = func() io.Reader { return os.Stdin }
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	ttyAvailable    = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

var errNoInput = errors.New("no input: pass values as arguments or pipe them on stdin")

func showInputFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "show-input",
		Aliases: []string{"s"},
		Usage:   "Print each input next to its result",
	}
}

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Render values the way the field displays them when blurred",
		UsageText: "numfield format [options] <value>...",
		Description: `Format each value with the configured prefix, suffix, grouping and
   decimal places. Input that is not a number renders the default value, or
   an empty line when there is none. Values are read from stdin, one per
   line, when no arguments are given.

   Examples:
     numfield format --prefix '$' --group --min-decimals 2 --max-decimals 2 1234.5
     numfield format --prefix '$' -- -42
     printf '3\n3.10\n' | numfield format`,
		Flags: append(formatFlags(), showInputFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			f, err := numfmt.New(cfg.Format)
			if err != nil {
				return err
			}
			inputs, err := readInputs(cmd)
			if err != nil {
				return err
			}

			logger := logging.WithContext(ctx)
			for _, in := range inputs {
				out := f.Format(in)
				logger.Debug("formatted", logging.Value(in), logging.Display(out))
				printResult(cmd, in, out)
			}
			return nil
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Recover the numbers a field would commit from display text",
		UsageText: "numfield parse [options] <text>...",
		Description: `Strip the configured prefix, suffix and separators from each input and
   print the normalized number. Rejected input prints the fallback (the
   default value, or null) and a warning on stderr; with --strict it fails.

   Examples:
     numfield parse --prefix '$' '$1,234.50'
     numfield parse --integer 12.7       # 12
     numfield parse --default 0 abc`,
		Flags: append(formatFlags(),
			showInputFlag(),
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on input that is not a number instead of using the fallback",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			f, err := numfmt.New(cfg.Format)
			if err != nil {
				return err
			}
			inputs, err := readInputs(cmd)
			if err != nil {
				return err
			}

			logger := logging.WithContext(ctx)
			strict := cmd.Bool("strict")
			for _, in := range inputs {
				v, err := f.ParseValue(in)
				if err != nil {
					if strict {
						return fmt.Errorf("parse %q: %w", in, err)
					}
					v = f.Commit(in)
					logger.Info("input rejected", logging.Value(in), logging.Err(err))
					fmt.Fprintln(os.Stderr, ui.StatusWarning(
						fmt.Sprintf("%q is not a number, using %s", in, valueText(v))))
				}
				printResult(cmd, in, valueText(v))
			}
			return nil
		},
	}
}

// readInputs returns the positional arguments, or the non-blank lines of a
// piped stdin when there are none.
func readInputs(cmd *cli.Command) ([]string, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args, nil
	}
	if stdinIsTerminal() {
		return nil, errNoInput
	}

	var inputs []string
	scanner := bufio.NewScanner(stdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(inputs) == 0 {
		return nil, errNoInput
	}
	return inputs, nil
}

func printResult(cmd *cli.Command, in, out string) {
	if cmd.Bool("show-input") {
		fmt.Println(ui.Conversion(in, out))
		return
	}
	fmt.Println(out)
}
