package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/ui"
)

func listCmd() *cobra.Command {
	var (
		archetype string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List players in the dataset",
		Run: func(cmd *cobra.Command, args []string) {
			d := loadDataset()

			var nodes []dataset.Node
			for _, n := range d.Nodes {
				if archetype != "" && !hasArchetype(n, archetype) {
					continue
				}
				nodes = append(nodes, n)
			}

			if asJSON {
				if nodes == nil {
					nodes = []dataset.Node{}
				}
				data, err := json.MarshalIndent(nodes, "", "  ")
				if err != nil {
					ui.Bad.Printf("  Failed to encode: %v\n", err)
					os.Exit(1)
				}
				fmt.Println(string(data))
				return
			}

			ui.Banner("players")
			if len(nodes) == 0 {
				fmt.Println("  No players found")
				return
			}

			rows := make([][]string, 0, len(nodes))
			for _, n := range nodes {
				rows = append(rows, []string{
					n.ID,
					n.Name,
					n.Segment,
					strings.Join(n.Archetype, ", "),
					fmt.Sprintf("%d/%d", len(n.Inbound), len(n.Outbound)),
				})
			}
			ui.Table([]string{"ID", "NAME", "SEGMENT", "ARCHETYPE", "IN/OUT"}, rows)
			fmt.Println()
			ui.Subtle.Printf("  %d players\n", len(nodes))
		},
	}

	cmd.Flags().StringVar(&archetype, "archetype", "", "Only players of this archetype")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func hasArchetype(n dataset.Node, name string) bool {
	for _, a := range n.Archetype {
		if a == name {
			return true
		}
	}
	return false
}
