package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [search-id]",
	Short: "Show recent searches",
	Long: `Lists recent unified searches, newest first. Pass a search id to show
a single search.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of searches to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output history as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if len(args) == 1 {
		entry, err := historyService.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no search with id %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get search: %w", err)
		}
		if historyJSON {
			return printJSON(cmd, entry)
		}
		printHistoryEntry(cmd, *entry)
		return nil
	}

	entries, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if historyJSON {
		if entries == nil {
			entries = []domain.SearchLogEntry{}
		}
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No searches recorded yet.")
		return nil
	}
	for _, e := range entries {
		printHistoryEntry(cmd, e)
	}
	return nil
}

func printHistoryEntry(cmd *cobra.Command, e domain.SearchLogEntry) {
	var flags []string
	if e.CacheHit {
		flags = append(flags, "cached")
	}
	if e.Degraded {
		flags = append(flags, "degraded")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " [" + strings.Join(flags, ", ") + "]"
	}

	sources := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		sources[i] = string(s)
	}

	cmd.Printf("%s  %q  %d results  %s%s\n",
		e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Query, e.Total, e.Duration.Round(time.Millisecond), suffix)
	cmd.Printf("    id: %s  intent: %s  sources: %s\n", e.ID, e.Intent, strings.Join(sources, ", "))
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
