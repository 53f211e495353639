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

	"github.com/joho/godotenv"

	"github.com/lysyi3m/news-comb/app/aggregator"
	"github.com/lysyi3m/news-comb/app/api"
	"github.com/lysyi3m/news-comb/app/cfg"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/providers"
	"github.com/lysyi3m/news-comb/app/tasks"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
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

	slog.Info("Starting News Comb server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	prefRepo := database.NewPreferenceRepository(db)
	savedRepo := database.NewSavedArticleRepository(db)

	taxonomy, err := feed.LoadTaxonomy(appCfg.TaxonomyFile)
	if err != nil {
		slog.Error("Failed to load category taxonomy", "file", appCfg.TaxonomyFile, "error", err)
		os.Exit(1)
	}
	classifier, err := feed.NewClassifier(taxonomy)
	if err != nil {
		slog.Error("Failed to build category classifier", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{}
	providerList := registerProviders(appCfg, httpClient, classifier)
	if len(providerList) == 0 {
		slog.Warn("No provider API keys configured, the feed will stay empty")
	}

	fetchTimeout := time.Duration(appCfg.FetchTimeout) * time.Second
	agg := aggregator.New(providerList, prefRepo, fetchTimeout)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	// Initial fetch so the first /articles request is served from cache.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*fetchTimeout)
	agg.Refresh(bootCtx)
	bootCancel()

	apiHandler := api.NewHandler(agg, prefRepo, savedRepo, scheduler,
		httpClient, appCfg.UserAgent, fetchTimeout)
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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
	}

	// Scheduler is stopped via defer
	slog.Info("News Comb server shutdown complete")
}

// registerProviders builds the provider list from the configured API
// keys. A provider without a key is skipped, keeping the rest of the
// aggregate functional.
func registerProviders(appCfg *cfg.Cfg, httpClient *http.Client, classifier *feed.Classifier) []providers.Provider {
	providerList := make([]providers.Provider, 0, 3)

	if appCfg.NewsAPIKey != "" {
		providerList = append(providerList, providers.NewNewsAPIClient(httpClient, appCfg.NewsAPIKey, classifier, appCfg.UserAgent))
	} else {
		slog.Warn("NEWSAPI_KEY not set, NewsAPI provider disabled")
	}

	if appCfg.GuardianKey != "" {
		providerList = append(providerList, providers.NewGuardianClient(httpClient, appCfg.GuardianKey, classifier, appCfg.UserAgent))
	} else {
		slog.Warn("GUARDIAN_KEY not set, Guardian provider disabled")
	}

	if appCfg.NYTimesKey != "" {
		providerList = append(providerList, providers.NewNYTimesClient(httpClient, appCfg.NYTimesKey, classifier, appCfg.UserAgent))
	} else {
		slog.Warn("NYTIMES_KEY not set, NYTimes provider disabled")
	}

	return providerList
}
