package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/ui"
)

func archetypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "archetypes",
		Aliases: []string{"legend"},
		Short:   "Show the archetype legend",
		Run: func(cmd *cobra.Command, args []string) {
			d := loadDataset()
			counts := make(map[string]int)
			for _, n := range d.Nodes {
				for _, a := range n.Archetype {
					counts[a]++
				}
			}

			ui.Banner("archetypes")
			for _, a := range dataset.Archetypes {
				fmt.Printf("  %s %s %s\n", ui.Swatch(a.Color), ui.Brand.Sprintf("%-32s", a.Name), ui.Subtle.Sprintf("%d", counts[a.Name]))
				fmt.Printf("      %s\n", ui.Subtle.Sprint(a.Description))
			}
		},
	}
}
