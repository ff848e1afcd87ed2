package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchSources []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all connected integrations",
	Long: `Sends the query to every connected integration and prints one list
ranked by relevance.

The query is classified first: mentioning a ticket, a document or a page
routes it to JIRA, Google Drive or Notion only. Use --source to restrict
the search to specific integrations.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results to print")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVarP(&searchSources, "source", "s", nil,
		"restrict to these integrations (jira, gdrive, notion, github)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	creds, err := filterIntegrations(settingsService.Integrations(), searchSources)
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		cmd.Println("No integrations connected. Run 'sercha-unified integrations set <source>' first.")
		return nil
	}

	set, err := searchService.Search(cmd.Context(), domain.SearchQuery{Raw: args[0], Credentials: creds})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, set)
	}
	outputSearchTable(cmd, set, searchLimit)
	return nil
}

// filterIntegrations keeps only the requested sources. An empty filter keeps all.
func filterIntegrations(
	all map[domain.SourceName]domain.Credentials, filter []string,
) (map[domain.SourceName]domain.Credentials, error) {
	if len(filter) == 0 {
		return all, nil
	}
	out := make(map[domain.SourceName]domain.Credentials, len(filter))
	for _, raw := range filter {
		name, ok := domain.ParseSourceName(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, raw)
		}
		if creds, ok := all[name]; ok {
			out[name] = creds
		}
	}
	return out, nil
}

func outputSearchJSON(cmd *cobra.Command, set domain.RankedResultSet) error {
	return printJSON(cmd, set)
}

func outputSearchTable(cmd *cobra.Command, set domain.RankedResultSet, limit int) {
	if set.Degraded && set.Message != "" {
		cmd.Printf("! %s\n\n", set.Message)
	}

	if len(set.Results) == 0 {
		cmd.Println("No results found.")
	} else {
		shown := set.Results
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}

		cmd.Printf("Results (%d of %d, intent: %s):\n", len(shown), set.Total, set.Intent)
		cmd.Println()
		for i := range shown {
			item := shown[i]
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, displayTitle(item.ResultItem), item.Relevance)
			cmd.Printf("      %s · %s\n", item.Source.DisplayName(), item.ItemType)
			if item.URL != "" {
				cmd.Printf("      %s\n", item.URL)
			}
			if item.Snippet != "" {
				cmd.Printf("      %s\n", item.Snippet)
			}
			cmd.Println()
		}
	}

	for _, d := range set.DegradedSources {
		cmd.Printf("%s: %s\n", d.Label, d.Reason)
		for _, p := range d.Placeholder {
			cmd.Printf("      %s\n", p.Title)
		}
	}
}

func displayTitle(item domain.ResultItem) string {
	if t := strings.TrimSpace(item.Title); t != "" {
		return t
	}
	return item.ID
}
