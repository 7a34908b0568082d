package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/apodworks/apod-pipeline/app/cfg"
	"github.com/apodworks/apod-pipeline/app/config"
	"github.com/apodworks/apod-pipeline/app/load"
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

	if err := appCfg.ValidateLoad(); err != nil {
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

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, appCfg, pipelineCfg.Load.Table)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	loader := load.NewLoader(store, paths, pipelineCfg.Load.BatchSize,
		pipelineCfg.Load.GetBatchPause())

	runID := runs.Begin(runlog.StageLoad)
	records, batches, err := loader.Run(ctx)
	runs.Finish(runID, records, batches, err)

	if err != nil {
		slog.Error("Load stage failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d APOD records in %d batches into %s\n",
		records, batches, pipelineCfg.Load.Table)
}

// newStore picks the store backend: a direct Postgres connection with bound
// parameters when DATABASE_URL is set, otherwise the Supabase execute_sql RPC.
func newStore(ctx context.Context, appCfg *cfg.Cfg, table string) (load.Store, func(), error) {
	if appCfg.DatabaseURL != "" {
		store, err := load.NewPostgresStore(ctx, appCfg.DatabaseURL, table)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}

	store := load.NewSupabaseStore(appCfg.SupabaseURL, appCfg.SupabaseKey, table)
	return store, func() {}, nil
}

func dataDir(flagDir, configDir string) string {
	if configDir != "" {
		return configDir
	}
	return flagDir
}
