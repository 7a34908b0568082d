package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/cfg"
	"github.com/apodworks/apod-pipeline/app/config"
	"github.com/apodworks/apod-pipeline/app/fetch"
	"github.com/apodworks/apod-pipeline/app/pipeline"
	"github.com/apodworks/apod-pipeline/app/runlog"
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

	if err := appCfg.ValidateFetch(); err != nil {
		slog.Error("Configuration invalid", "error", err)
		os.Exit(1)
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

	client := apod.NewClient(apod.DefaultEndpoint, appCfg.APIKey, appCfg.UserAgent,
		pipelineCfg.Fetch.GetTimeout())
	fetcher := fetch.NewFetcher(client, paths, pipelineCfg.Fetch.LookbackDays)

	runID := runs.Begin(runlog.StageFetch)
	count, err := fetcher.Run(context.Background())
	runs.Finish(runID, count, 0, err)

	if err != nil {
		slog.Error("Fetch stage failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Fetched %d APOD records to %s\n", count, paths.RawFile())
}

func dataDir(flagDir, configDir string) string {
	if configDir != "" {
		return configDir
	}
	return flagDir
}
