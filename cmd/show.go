package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/ui"
)

func showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"info"},
		Short:   "Show a player and its connections",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			detail, err := graph.BuildDetail(loadDataset(), args[0])
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			if asJSON {
				data, err := json.MarshalIndent(detail, "", "  ")
				if err != nil {
					ui.Bad.Printf("  Failed to encode: %v\n", err)
					os.Exit(1)
				}
				fmt.Println(string(data))
				return
			}

			fmt.Println()
			fmt.Print(graph.RenderDetail(detail,
				func(s string) string { return ui.Brand.Sprint(s) },
				func(s string) string { return ui.Subtle.Sprint(s) },
				func(s string) string { return ui.Info.Sprint(s) },
			))
			fmt.Println()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
