package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/ui"
)

func exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dataset as JSON, YAML or Graphviz DOT",
		Run: func(cmd *cobra.Command, args []string) {
			d := loadDataset()

			var (
				data []byte
				err  error
			)
			switch format {
			case "json":
				data, err = d.ExportJSON()
			case "yaml", "yml":
				data, err = d.ExportYAML()
			case "dot":
				data = []byte(graph.ExportDOT(d))
			default:
				ui.Bad.Printf("  Unknown format %q (use json, yaml or dot)\n", format)
				os.Exit(1)
			}
			if err != nil {
				ui.Bad.Printf("  Export failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(data))
			if len(data) > 0 && data[len(data)-1] != '\n' {
				fmt.Println()
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: json, yaml, or dot")
	return cmd
}
