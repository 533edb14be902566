package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Makepad-fr/talentlink/internal/config"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// ConfigCommand returns the config command
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize a new configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "talentlink.toml",
					},
				},
				Action: runConfigInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration file",
				Action: runConfigValidate,
			},
		},
	}
}

func runConfigInit(c *cli.Context) error {
	outputPath := c.String("output")

	if err := config.Init(outputPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	ui.OK("created configuration file at " + outputPath)
	return nil
}

// runConfigValidate relies on loadEnv, which refuses an invalid configuration.
func runConfigValidate(c *cli.Context) error {
	if _, err := loadEnv(c); err != nil {
		return err
	}
	ui.OK("configuration is valid")
	return nil
}
