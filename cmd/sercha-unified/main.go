// Command sercha-unified searches JIRA, Google Drive, Notion and GitHub
// with one query and prints a single ranked list.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-unified/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/sercha-unified/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-unified/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-unified/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-unified/internal/connectors/github"
	"github.com/custodia-labs/sercha-unified/internal/connectors/google/drive"
	"github.com/custodia-labs/sercha-unified/internal/connectors/jira"
	"github.com/custodia-labs/sercha-unified/internal/connectors/notion"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/core/services"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(buildServices)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// buildServices wires storage, providers and core services for one run.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configDir, err := resolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	loadEnv(configDir)

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	pageSize := settings.MaxResultsPerProvider
	adapters := []driven.ProviderAdapter{
		jira.NewAdapter(jira.Config{PageSize: pageSize}),
		drive.NewAdapter(drive.Config{PageSize: int64(pageSize)}),
		notion.NewAdapter(notion.Config{PageSize: pageSize}),
		github.NewAdapter(github.Config{PageSize: pageSize, APIBase: os.Getenv("SERCHA_GITHUB_API_URL")}),
	}

	cache := memory.NewCache(settings.CacheTTL)
	aggregator := services.NewAggregator(adapters, cache, settings)
	aggregator.SetSearchLogStore(store.SearchLogStore())

	watcher := file.NewWatcher(configStore, func() {
		updated, err := settingsService.Get()
		if err != nil {
			logger.Warn("reload settings: %v", err)
			return
		}
		aggregator.SetSettings(updated)
		cache.SetTTL(updated.CacheTTL)
		logger.Info("settings reloaded")
	})

	return &cli.Services{
		Search:   aggregator,
		Settings: settingsService,
		History:  services.NewHistoryService(store.SearchLogStore()),
		Watcher:  watcher,
		Close:    store.Close,
	}, nil
}

// resolveConfigDir returns the flag value, else SERCHA_UNIFIED_HOME, else ~/.sercha-unified.
func resolveConfigDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("SERCHA_UNIFIED_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, file.DefaultDirName), nil
}

// loadEnv reads .env from the working directory, then from configDir.
// Variables already set in the environment win.
func loadEnv(configDir string) {
	for _, path := range []string{".env", filepath.Join(configDir, ".env")} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("load %s: %v", path, err)
		}
	}
}
