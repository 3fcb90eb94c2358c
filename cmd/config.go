package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/config"
	"github.com/msalah0e/ecomap/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := toml.NewEncoder(os.Stdout).Encode(loadConfig()); err != nil {
				ui.Bad.Printf("  Failed to encode config: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config file if none exists",
			Run: func(cmd *cobra.Command, args []string) {
				if err := config.EnsureExists(); err != nil {
					ui.Bad.Printf("  Failed to write config: %v\n", err)
					os.Exit(1)
				}
				ui.Good.Printf("  %s Config ready\n", ui.StatusIcon(true))
				ui.Subtle.Printf("  %s\n", config.Path())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(config.Path())
			},
		},
	)
	return cmd
}
