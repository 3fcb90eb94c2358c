package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/batch"
	"github.com/msalah0e/ecomap/internal/ui"
)

func galleryCmd() *cobra.Command {
	var (
		dir         string
		ticks       int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Render the full map and one SVG per archetype",
		Long: `Lay out the full map and every archetype view in parallel and write
one SVG per view.

  ecomap gallery                      # Into ./gallery
  ecomap gallery -d out -j 8          # Custom dir, 8 layouts at once`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			ui.Banner("gallery")

			results, err := batch.Render(context.Background(), loadDataset(), batch.ArchetypeViews(), batch.Options{
				Session:     sessionOptions(c, c.Viewport.Width, c.Viewport.Height),
				Dir:         dir,
				Ticks:       ticks,
				Fit:         true,
				Concurrency: concurrency,
			})
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			failed := 0
			for _, r := range results {
				if !r.OK() {
					failed++
					fmt.Printf("  %s %s %s\n", ui.StatusIcon(false), r.View.Name, ui.Bad.Sprintf("(%v)", r.Err))
					continue
				}
				fmt.Printf("  %s %-32s %s\n", ui.StatusIcon(true), r.View.Name,
					ui.Subtle.Sprintf("%d players, %d links, %.1fs", r.Nodes, r.Links, r.Elapsed.Seconds()))
			}
			fmt.Println()
			if failed > 0 {
				ui.Bad.Printf("  %d of %d views failed\n", failed, len(results))
				os.Exit(1)
			}
			ui.Subtle.Printf("  %s\n", dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "gallery", "Output directory")
	cmd.Flags().IntVar(&ticks, "ticks", 300, "Maximum simulation ticks per view")
	cmd.Flags().IntVarP(&concurrency, "jobs", "j", 4, "Layouts to run at once")
	return cmd
}
