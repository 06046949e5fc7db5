package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/burgolabs/briefing/app/api"
	"github.com/burgolabs/briefing/app/cfg"
	"github.com/burgolabs/briefing/app/llm"
	"github.com/burgolabs/briefing/app/pipeline"
	"github.com/burgolabs/briefing/app/region"
	"github.com/burgolabs/briefing/app/serp"
	"github.com/burgolabs/briefing/app/sheets"
	sig "github.com/burgolabs/briefing/app/signal"
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

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting briefing server", "version", appCfg.Version)

	regions, err := region.NewLoader(appCfg.RegionsDir).LoadAll()
	if err != nil {
		slog.Error("Failed to load region configurations", "error", err)
		os.Exit(1)
	}
	if len(regions) == 0 {
		slog.Error("No region configurations found", "dir", appCfg.RegionsDir)
		os.Exit(1)
	}
	slog.Info("Loaded region configurations", "count", len(regions))

	ctx := context.Background()

	store, err := sheets.NewStore(ctx, appCfg.CredentialsFile, appCfg.SpreadsheetID)
	if err != nil {
		slog.Error("Failed to initialize workbook store", "error", err)
		os.Exit(1)
	}

	searcher := serp.NewClient(appCfg.SerpAPIKey, &http.Client{Timeout: 60 * time.Second})
	generator := llm.NewOpenAIClient(appCfg.OpenAIKey, appCfg.OpenAIModel)
	enricher := sig.NewMetaEnricher(
		&http.Client{},
		appCfg.EnrichConcurrency,
		time.Duration(appCfg.PageFetchTimeout)*time.Second,
		appCfg.UserAgent,
	)

	cooldown := time.Duration(appCfg.CooldownHours) * time.Hour
	runners := make(map[string]api.RunnerInterface, len(regions))
	for id, reg := range regions {
		runners[id] = pipeline.NewRunner(reg, searcher, enricher, store, generator, cooldown)
		slog.Info("Region registered", "region", id, "display", reg.Display)
	}

	apiHandler := api.NewHandler(runners, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
