package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/klauern/numfield/internal/config"
	"github.com/klauern/numfield/internal/ui"
	"github.com/klauern/numfield/internal/ui/tui"
	"github.com/klauern/numfield/internal/util"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage numfield configuration",
		Commands: []*cli.Command{
			configShowCommand(),
			configPathCommand(),
			configInitCommand(),
			configEditCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return showConfig(cmd, "text")
		},
	}
}

func configShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Display the effective configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, yaml, toml)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return showConfig(cmd, cmd.String("format"))
		},
	}
}

func showConfig(cmd *cli.Command, format string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "toml":
		data, err := cfg.Marshal(format == "toml")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	case "text":
		return printConfigText(cfg)
	default:
		return fmt.Errorf("invalid format %q (use text, yaml or toml)", format)
	}
}

// printConfigText prints the YAML view of cfg with title-cased labels.
func printConfigText(cfg *config.Config) error {
	data, err := cfg.Marshal(false)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	fmt.Println(ui.Header("numfield configuration"))
	if len(doc.Content) == 0 {
		return nil
	}
	printNode(doc.Content[0], 0, cases.Title(language.English))
	return nil
}

func printNode(node *yaml.Node, depth int, caser cases.Caser) {
	indent := strings.Repeat("  ", depth)
	for i := 0; i+1 < len(node.Content); i += 2 {
		label := caser.String(strings.ReplaceAll(node.Content[i].Value, "_", " "))
		value := node.Content[i+1]
		if value.Kind == yaml.MappingNode {
			fmt.Printf("%s%s:\n", indent, ui.Bold(label))
			printNode(value, depth+1, caser)
			continue
		}
		shown := value.Value
		if shown == "" {
			shown = ui.Empty()
		}
		fmt.Printf("%s%s: %s\n", indent, label, shown)
	}
}

func configPathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Show configuration file paths",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := config.FilePath()
			if p := cmd.String("config"); p != "" {
				path = util.ExpandPath(p, "")
			}
			fmt.Println("Configuration paths:")
			fmt.Printf("  Config file: %s\n", path)
			fmt.Printf("  Scripts: %s\n", util.ScriptsDir())
			if config.Exists() {
				fmt.Println(ui.StatusSuccess("default config file exists"))
			} else {
				fmt.Println(ui.StatusWarning("default config file not found, using defaults"))
			}
			return nil
		},
	}
}

func configInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write the default configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
			&cli.BoolFlag{
				Name:  "toml",
				Usage: "Write config.toml instead of config.yaml",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := config.FilePath()
			if cmd.Bool("toml") {
				path = strings.TrimSuffix(path, ".yaml") + ".toml"
			}
			if util.FileExists(path) && !cmd.Bool("force") {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().SaveToPath(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println(ui.StatusSuccess("Wrote " + path))
			return nil
		},
	}
}

func configEditCommand() *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Edit the configuration interactively",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if !ttyAvailable() {
				return errNoTerminal
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			result, err := tui.RunSettings(cfg)
			if err != nil {
				return fmt.Errorf("settings editor failed: %w", err)
			}
			if result.Action != tui.SettingsActionSave {
				fmt.Println("No changes saved")
				return nil
			}

			path := config.FilePath()
			if p := cmd.String("config"); p != "" {
				path = util.ExpandPath(p, "")
			}
			if err := result.Config.SaveToPath(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println(ui.StatusSuccess("Saved " + path))
			return nil
		},
	}
}
