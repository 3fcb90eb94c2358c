package main

import (
	"embed"
	"os"

	"github.com/msalah0e/ecomap/cmd"
)

//go:embed data/*.json
var datasetFS embed.FS

func main() {
	cmd.SetDatasetFS(datasetFS)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
