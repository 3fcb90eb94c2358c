package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/render"
	"github.com/msalah0e/ecomap/internal/session"
	"github.com/msalah0e/ecomap/internal/ui"
)

func renderCmd() *cobra.Command {
	var (
		filter   string
		search   string
		selected string
		width    float64
		height   float64
		ticks    int
		noFit    bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a settled layout to a static SVG",
		Long: `Run the layout until it settles and write the scene as SVG.

  ecomap render -o map.svg
  ecomap render --filter "Market Aggregators" -o aggregators.svg
  ecomap render --select P001 --ticks 500 > ryanair.svg`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			if !cmd.Flags().Changed("width") {
				width = c.Viewport.Width
			}
			if !cmd.Flags().Changed("height") {
				height = c.Viewport.Height
			}

			d := loadDataset()
			for _, msg := range inputWarnings(d, filter, selected) {
				fmt.Fprintf(os.Stderr, "  %s %s\n", ui.WarnIcon(), ui.Warn.Sprint(msg))
			}

			opts := sessionOptions(c, width, height)
			opts.Filter, opts.Search, opts.Selected = filter, search, selected
			s := session.New(d, opts)

			n := s.Settle(ticks)
			if !noFit {
				if err := s.Handle(session.Event{Type: session.FitView}); err != nil {
					ui.Bad.Printf("  Fit failed: %v\n", err)
					os.Exit(1)
				}
			}

			sc := s.Scene()
			if err := writeSVG(output, sc); err != nil {
				ui.Bad.Printf("  Failed to write SVG: %v\n", err)
				os.Exit(1)
			}

			if output != "" {
				ui.Good.Printf("  %s Rendered %d players, %d links after %d ticks\n",
					ui.StatusIcon(true), len(sc.Nodes), len(sc.Links), n)
				ui.Subtle.Printf("  %s\n", output)
			}
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show players of this archetype")
	cmd.Flags().StringVar(&search, "search", "", "Highlight players whose name matches")
	cmd.Flags().StringVar(&selected, "select", "", "Select a player by id")
	cmd.Flags().Float64Var(&width, "width", 1200, "Canvas width")
	cmd.Flags().Float64Var(&height, "height", 800, "Canvas height")
	cmd.Flags().IntVar(&ticks, "ticks", 300, "Maximum simulation ticks")
	cmd.Flags().BoolVar(&noFit, "no-fit", false, "Keep the identity transform instead of fitting the graph")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// writeSVG writes the scene to path, or to stdout when path is empty. The
// file is closed before returning, also on error.
func writeSVG(path string, sc *render.Scene) error {
	if path == "" {
		return render.WriteSVG(os.Stdout, sc)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WriteSVG(f, sc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// inputWarnings explains inputs the view will ignore: a filter no player
// matches, or a selection that is unknown or filtered out.
func inputWarnings(d *dataset.Document, filter, selected string) []string {
	var warns []string
	if filter != "" {
		matched := false
		for _, n := range d.Nodes {
			if hasArchetype(n, filter) {
				matched = true
				break
			}
		}
		if !matched {
			warns = append(warns, fmt.Sprintf("no player has archetype %q, showing all", filter))
			filter = ""
		}
	}
	if selected != "" {
		n, ok := d.Node(selected)
		switch {
		case !ok:
			warns = append(warns, fmt.Sprintf("unknown player %q, nothing selected", selected))
		case filter != "" && !hasArchetype(*n, filter):
			warns = append(warns, fmt.Sprintf("player %q is hidden by the filter, nothing selected", selected))
		}
	}
	return warns
}
