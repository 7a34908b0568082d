package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apodworks/apod-pipeline/app/cfg"
	"github.com/apodworks/apod-pipeline/app/config"
	"github.com/apodworks/apod-pipeline/app/pipeline"
	"github.com/apodworks/apod-pipeline/app/runlog"
	"github.com/apodworks/apod-pipeline/app/transform"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	pipelineCfg, err := config.Load(appCfg.ConfigFile)
	if err != nil {
		slog.Error("Failed to load pipeline config", "error", err)
		os.Exit(1)
	}

	paths := pipeline.NewPaths(dataDir(appCfg.DataDir, pipelineCfg.DataDir))

	runs, err := runlog.Open(paths.RunLogFile())
	if err != nil {
		slog.Warn("Run log unavailable, continuing without it", "error", err)
		runs = nil
	}
	defer runs.Close()

	transformer := transform.NewTransformer(paths)

	runID := runs.Begin(runlog.StageTransform)
	count, err := transformer.Run()
	runs.Finish(runID, count, 0, err)

	if err != nil {
		slog.Error("Transform stage failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Transformed %d APOD records to %s\n", count, paths.StagedFile())
}

func dataDir(flagDir, configDir string) string {
	if configDir != "" {
		return configDir
	}
	return flagDir
}
