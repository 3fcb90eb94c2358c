package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/msalah0e/ecomap/internal/server"
	"github.com/msalah0e/ecomap/internal/ui"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		open    bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive map in the browser",
		Long: `Start the HTTP server with the interactive ecosystem map.

  ecomap serve                  # Listen on :8080
  ecomap serve --addr :9000     # Custom address
  ecomap serve --open           # Open the map in the default browser`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			d := loadDataset()

			if cmd.Flags().Changed("addr") {
				c.Server.Addr = addr
			}
			if cmd.Flags().Changed("compact") {
				c.Viewport.Compact = compact
			}

			srv := server.New(d, server.Options{
				Addr:    c.Server.Addr,
				Title:   c.Server.Title,
				Compact: c.Viewport.Compact,
				Manager: server.ManagerOptions{
					Session:     sessionOptions(c, c.Viewport.Width, c.Viewport.Height),
					TTL:         c.Server.TTL(),
					EventRate:   c.Server.EventRate,
					EventBurst:  c.Server.EventBurst,
					MaxSessions: c.Server.MaxSessions,
				},
			})

			ui.Banner("serve")
			url := localURL(c.Server.Addr)
			stats := d.GetStats()
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-10s", "Map"), url)
			fmt.Printf("  %s  %d players, %d links\n", ui.Brand.Sprintf("%-10s", "Dataset"), stats.Nodes, stats.Links)
			fmt.Println()
			ui.Subtle.Println("  Press Ctrl+C to stop")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Start(ctx) })
			g.Go(func() error { return srv.Reap(ctx) })

			if open {
				openBrowser(url)
			}

			if err := g.Wait(); err != nil {
				ui.Bad.Printf("  Server failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&open, "open", false, "Open the map in the default browser")
	cmd.Flags().BoolVar(&compact, "compact", false, "Dock the legend at the bottom")
	return cmd
}

// localURL turns a listen address into something a browser can open.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", url)
	case "linux":
		openCmd = exec.Command("xdg-open", url)
	default:
		// Windows or other
		openCmd = exec.Command("cmd", "/c", "start", url)
	}
	if err := openCmd.Start(); err != nil {
		fmt.Printf("  Open %s in your browser\n", url)
	}
}
