package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/apodworks/apod-pipeline/app/api"
	"github.com/apodworks/apod-pipeline/app/cfg"
	"github.com/apodworks/apod-pipeline/app/config"
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

	pipelineCfg, err := config.Load(appCfg.ConfigFile)
	if err != nil {
		slog.Error("Failed to load pipeline config", "error", err)
		os.Exit(1)
	}

	dir := appCfg.DataDir
	if pipelineCfg.DataDir != "" {
		dir = pipelineCfg.DataDir
	}
	paths := pipeline.NewPaths(dir)

	runs, err := runlog.Open(paths.RunLogFile())
	if err != nil {
		slog.Error("Failed to open run log", "error", err)
		os.Exit(1)
	}
	defer runs.Close()

	handler := api.NewHandler(runs, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting status server", "port", appCfg.Port, "version", appCfg.Version)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("HTTP server error", "error", err)
		os.Exit(1)
	}
}
