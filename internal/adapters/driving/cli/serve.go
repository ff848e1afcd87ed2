package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-unified/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the unified search HTTP API",
	Long: `Serve unified search over HTTP.

  POST /search   {"query": "...", "userIntegrations": {...}}
  GET  /history  recent searches
  GET  /healthz  liveness

Requests without userIntegrations use the configured integrations.
config.toml is watched and settings changes apply without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}

	server, err := httpapi.NewServer(searchService, settingsService, historyService)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	if configWatcher != nil {
		g.Go(func() error {
			if err := configWatcher.Run(ctx); err != nil {
				logger.Warn("config watcher stopped: %v", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		cmd.Printf("Listening on http://%s\n", addr)
		return server.Run(ctx, addr)
	})
	return g.Wait()
}
