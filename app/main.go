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

	"github.com/lysyi3m/linkedin-comb/app/api"
	"github.com/lysyi3m/linkedin-comb/app/cfg"
	"github.com/lysyi3m/linkedin-comb/app/database"
	"github.com/lysyi3m/linkedin-comb/app/fetcher"
	"github.com/lysyi3m/linkedin-comb/app/quota"
	"github.com/lysyi3m/linkedin-comb/app/tasks"
	"github.com/lysyi3m/linkedin-comb/app/topics"
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

	slog.Info("Starting LinkedIn Comb", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	authorRepo := database.NewAuthorRepository(db)
	contentRepo := database.NewContentRepository(db)
	fetchLogRepo := database.NewFetchLogRepository(db)

	topicsLoader := topics.NewLoader(appCfg.TopicsFile)
	if _, err := topicsLoader.Load(); err != nil {
		slog.Error("Failed to load topics configuration", "file", appCfg.TopicsFile, "error", err)
		os.Exit(1)
	}

	tracker := quota.NewTracker(fetchLogRepo, appCfg.MaxRequestsPerDay)
	scraper := fetcher.NewScraper(appCfg.UserAgent, appCfg.LinkedInCookie,
		time.Duration(appCfg.FetchTimeout)*time.Second)

	orchestrator := tasks.NewOrchestrator(scraper, authorRepo, contentRepo, tracker,
		topicsLoader, time.Duration(appCfg.FetchDelay)*time.Second)

	scheduler, err := tasks.NewScheduler(orchestrator, appCfg.FetchIntervalHours)
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(authorRepo, contentRepo, fetchLogRepo, tracker, orchestrator, topicsLoader)
	router := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
