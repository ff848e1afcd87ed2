// Package cli provides the cobra command tree for sercha-unified.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-unified/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main. Commands fail with a clear error when the
// service they need is nil.
var (
	searchService   driving.UnifiedSearchService
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	configWatcher   Watcher
	bootstrap       Bootstrap
	shutdown        func() error
)

var (
	verboseFlag   bool
	configDirFlag string
)

// Options are the global flags handed to Bootstrap.
type Options struct {
	Verbose   bool
	ConfigDir string
}

// Services is what Bootstrap wires for the command tree.
type Services struct {
	Search   driving.UnifiedSearchService
	Settings driving.SettingsService
	History  driving.HistoryService
	// Watcher reloads configuration while serving. Optional.
	Watcher Watcher
	// Close releases storage handles. Optional.
	Close func() error
}

// Watcher runs until ctx is cancelled.
type Watcher interface {
	Run(ctx context.Context) error
}

// Bootstrap builds the services once global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "sercha-unified",
	Short: "Search JIRA, Google Drive, Notion and GitHub at once",
	Long: `sercha-unified sends one query to every connected integration, then merges
the answers into a single list ranked by relevance.

Sources that fail are reported as degraded; results from the remaining
sources are still returned.`,
	SilenceUsage:       true,
	PersistentPreRunE:  preRun,
	PersistentPostRunE: postRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"directory holding config.toml and history (default ~/.sercha-unified)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		searchService, settingsService, historyService, configWatcher, shutdown = nil, nil, nil, nil, nil
		return
	}
	searchService = s.Search
	settingsService = s.Settings
	historyService = s.History
	configWatcher = s.Watcher
	shutdown = s.Close
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, cancelled on shutdown signals by main.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if bootstrap == nil || searchService != nil {
		return nil
	}
	services, err := bootstrap(Options{Verbose: verboseFlag, ConfigDir: configDirFlag})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func postRun(_ *cobra.Command, _ []string) error {
	if shutdown == nil {
		return nil
	}
	closeFn := shutdown
	shutdown = nil
	return closeFn()
}
