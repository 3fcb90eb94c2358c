package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/ui"
)

func searchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "search <term>",
		Aliases: []string{"s", "find"},
		Short:   "Search players by name, segment, archetype or description",
		Long: `Search the dataset and rank the hits.

  ecomap search airline
  ecomap search "market aggregators" --json`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			query := strings.Join(args, " ")
			results := graph.Search(loadDataset(), query)

			if asJSON {
				if results == nil {
					results = []graph.SearchResult{}
				}
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					ui.Bad.Printf("  Failed to encode: %v\n", err)
					os.Exit(1)
				}
				fmt.Println(string(data))
				return
			}

			ui.Banner(fmt.Sprintf("search %q", query))
			if len(results) == 0 {
				fmt.Println("  No players found")
				return
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Node.ID,
					r.Node.Name,
					r.Node.Segment,
					fmt.Sprintf("%d", r.Score),
				})
			}
			ui.Table([]string{"ID", "NAME", "SEGMENT", "SCORE"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
