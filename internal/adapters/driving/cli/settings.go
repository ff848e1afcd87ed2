package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage search settings",
	Long:  `View and change how unified search fans out, caches and degrades.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change search settings",
	Long: `Change one or more search settings. Only the flags given are updated.

Examples:
  sercha-unified settings set --provider-timeout 10s
  sercha-unified settings set --cache-ttl 2m --placeholders=false`,
	RunE: runSettingsSet,
}

var integrationsCmd = &cobra.Command{
	Use:     "integrations",
	Aliases: []string{"integration"},
	Short:   "Manage connected integrations",
	Long: `Store access tokens for JIRA, Google Drive, Notion and GitHub.

Tokens are kept in config.toml. SERCHA_<SOURCE>_TOKEN and friends in the
environment (or a .env file) take precedence.`,
}

var integrationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected integrations",
	RunE:  runIntegrationsList,
}

var integrationsSetCmd = &cobra.Command{
	Use:   "set [source]",
	Short: "Connect an integration",
	Long: `Store credentials for an integration. The token is prompted for when
--token is not given. JIRA also needs --cloud-id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIntegrationsSet,
}

var integrationsRemoveCmd = &cobra.Command{
	Use:   "remove [source]",
	Short: "Disconnect an integration",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntegrationsRemove,
}

// promptInput is where interactive answers are read from.
var promptInput io.Reader = os.Stdin

func init() {
	settingsSetCmd.Flags().Duration("provider-timeout", 0, "deadline for each provider call")
	settingsSetCmd.Flags().Duration("cache-ttl", 0, "how long results are reused")
	settingsSetCmd.Flags().Int("max-results", 0, "page size requested from each provider")
	settingsSetCmd.Flags().Bool("placeholders", true, "attach demo items to degraded sources")
	settingsSetCmd.Flags().Bool("broaden", false, "search everything when the routed source is not connected")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)

	integrationsSetCmd.Flags().String("token", "", "access token")
	integrationsSetCmd.Flags().String("cloud-id", "", "Atlassian cloud id (JIRA)")
	integrationsSetCmd.Flags().String("site-url", "", "site used for deep links, e.g. https://acme.atlassian.net")
	integrationsSetCmd.Flags().String("workspace", "", "workspace or organisation name")
	integrationsCmd.AddCommand(integrationsListCmd)
	integrationsCmd.AddCommand(integrationsSetCmd)
	integrationsCmd.AddCommand(integrationsRemoveCmd)
	rootCmd.AddCommand(integrationsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Provider timeout: %s\n", settings.ProviderTimeout)
	cmd.Printf("  Cache TTL: %s\n", settings.CacheTTL)
	cmd.Printf("  Max results per provider: %d\n", settings.MaxResultsPerProvider)
	cmd.Printf("  Demo placeholders: %s\n", yesNo(settings.IncludePlaceholders))
	cmd.Printf("  Broaden unconnected intent: %s\n", yesNo(settings.BroadenUnconnectedIntent))
	cmd.Println()

	cmd.Println("[Integrations]")
	printIntegrations(cmd, settingsService.Integrations())
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	flags := cmd.Flags()
	changed := false
	if flags.Changed("provider-timeout") {
		settings.ProviderTimeout, _ = flags.GetDuration("provider-timeout")
		changed = true
	}
	if flags.Changed("cache-ttl") {
		settings.CacheTTL, _ = flags.GetDuration("cache-ttl")
		changed = true
	}
	if flags.Changed("max-results") {
		settings.MaxResultsPerProvider, _ = flags.GetInt("max-results")
		changed = true
	}
	if flags.Changed("placeholders") {
		settings.IncludePlaceholders, _ = flags.GetBool("placeholders")
		changed = true
	}
	if flags.Changed("broaden") {
		settings.BroadenUnconnectedIntent, _ = flags.GetBool("broaden")
		changed = true
	}
	if !changed {
		return errors.New("no settings given, see 'settings set --help'")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

func runIntegrationsList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	printIntegrations(cmd, settingsService.Integrations())
	return nil
}

func printIntegrations(cmd *cobra.Command, integrations map[domain.SourceName]domain.Credentials) {
	for _, source := range domain.AllSources {
		creds, ok := integrations[source]
		if !ok {
			cmd.Printf("  %-13s not connected\n", source.DisplayName())
			continue
		}
		line := fmt.Sprintf("  %-13s %s", source.DisplayName(), maskAPIKey(creds.AccessToken))
		if creds.Workspace != "" {
			line += " (" + creds.Workspace + ")"
		}
		cmd.Println(line)
	}
}

func runIntegrationsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(promptInput)

	var source domain.SourceName
	if len(args) == 1 {
		name, ok := domain.ParseSourceName(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownSource, args[0])
		}
		source = name
	} else {
		cmd.Println("Select integration:")
		for i, s := range domain.AllSources {
			cmd.Printf("  [%d] %s\n", i+1, s.DisplayName())
		}
		cmd.Print("Choice [1]: ")
		source = domain.AllSources[parseChoice(readLine(reader), len(domain.AllSources), 1)-1]
	}

	flags := cmd.Flags()
	token, _ := flags.GetString("token")
	cloudID, _ := flags.GetString("cloud-id")
	siteURL, _ := flags.GetString("site-url")
	workspace, _ := flags.GetString("workspace")

	if token == "" {
		cmd.Printf("%s access token: ", source.DisplayName())
		token = readSecret(reader)
		cmd.Println()
	}
	if source == domain.SourceJira && cloudID == "" {
		cmd.Print("JIRA cloud id: ")
		cloudID = readLine(reader)
	}

	creds := domain.Credentials{
		AccessToken: strings.TrimSpace(token),
		CloudID:     strings.TrimSpace(cloudID),
		SiteURL:     strings.TrimSpace(siteURL),
		Workspace:   strings.TrimSpace(workspace),
	}
	if err := settingsService.SetIntegration(source, creds); err != nil {
		return fmt.Errorf("failed to save %s: %w", source.DisplayName(), err)
	}
	cmd.Printf("%s connected (%s).\n", source.DisplayName(), maskAPIKey(creds.AccessToken))
	return nil
}

func runIntegrationsRemove(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	source, ok := domain.ParseSourceName(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSource, args[0])
	}
	if err := settingsService.RemoveIntegration(source); err != nil {
		return fmt.Errorf("failed to remove %s: %w", source.DisplayName(), err)
	}
	cmd.Printf("%s disconnected.\n", source.DisplayName())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo on a terminal, else falls back to the reader.
func readSecret(reader *bufio.Reader) string {
	if f, ok := promptInput.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
