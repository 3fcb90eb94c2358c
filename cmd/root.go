package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/ecomap/internal/config"
	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/logger"
	"github.com/msalah0e/ecomap/internal/logger/console"
	"github.com/msalah0e/ecomap/internal/session"
	"github.com/msalah0e/ecomap/internal/ui"
)

var version = "0.3.0"

// embeddedDataset is the path of the default dataset inside datasetFS.
const embeddedDataset = "data/ecosystem.json"

var (
	datasetFS   fs.FS
	datasetPath string
	debugMode   bool

	cfg *config.Config
	doc *dataset.Document
)

// SetDatasetFS sets the filesystem holding the embedded default dataset.
func SetDatasetFS(fsys fs.FS) {
	datasetFS = fsys
}

func loadConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func loadDataset() *dataset.Document {
	if doc != nil {
		return doc
	}

	path := datasetPath
	if path == "" {
		path = loadConfig().Dataset
	}

	var err error
	switch {
	case path != "":
		doc, err = dataset.LoadFile(path)
	case datasetFS != nil:
		doc, err = dataset.LoadFromFS(datasetFS, embeddedDataset)
	default:
		err = errors.New("no dataset given and none embedded")
	}
	if err != nil {
		ui.Bad.Printf("ecomap: failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("dataset loaded", "nodes", len(doc.Nodes), "links", len(doc.Links), "path", path)
	return doc
}

// sessionOptions maps configuration onto a session of the given size.
func sessionOptions(c *config.Config, width, height float64) session.Options {
	return session.Options{
		Width:          width,
		Height:         height,
		Layout:         c.Layout.Force(),
		Style:          c.Decoration,
		MinScale:       c.Viewport.MinScale,
		MaxScale:       c.Viewport.MaxScale,
		DragHeat:       c.Layout.DragHeat,
		Background:     c.Viewport.Background,
		TickRate:       c.Layout.TickInterval(),
		ClickTolerance: c.Viewport.ClickTolerance,
		FitPadding:     c.Viewport.FitPadding,
	}
}

var rootCmd = &cobra.Command{
	Use:   "ecomap",
	Short: "ecomap · interactive ecosystem graph",
	Long: ui.Brand.Sprint(ui.Globe+" ecomap") + " · explore a market ecosystem as a force-directed graph\n" +
		ui.Subtle.Sprint("Serve it in the browser, render it to SVG, or query it from the terminal"),
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		logger.Init(console.New(console.Params{
			Debug:  debugMode || c.Log.Debug,
			Prefix: "ecomap",
		}))
	},
}

func init() {
	rootCmd.SetVersionTemplate("ecomap {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "Dataset file (JSON or YAML) instead of the embedded one")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		galleryCmd(),
		listCmd(),
		showCmd(),
		searchCmd(),
		archetypesCmd(),
		exportCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
