package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/anthropic"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/gemini"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/ollama"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/openai"
	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

var (
	configEdit         bool
	configShow         bool
	configShowPath     bool
	configSetProvider  string
	configSetAPIKey    string
	configSetClaudeKey string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the notedmd configuration",
	Long: `View and edit the configuration file.

With no flags, shows the current configuration. Use --edit to run the
interactive setup wizard.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configEdit, "edit", false, "run the interactive setup wizard")
	configCmd.Flags().BoolVar(&configShow, "show", false, "show the current configuration")
	configCmd.Flags().BoolVar(&configShowPath, "show-path", false, "print the configuration file path")
	configCmd.Flags().StringVar(&configSetProvider, "set-provider", "", "switch the active provider")
	configCmd.Flags().StringVar(&configSetAPIKey, "set-api-key", "", "set the Gemini API key and make Gemini active")
	configCmd.Flags().StringVar(&configSetClaudeKey, "set-claude-api-key", "", "set the Claude API key and make Claude active")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	switch {
	case configShowPath:
		cmd.Println(configStore.Path())
		return nil
	case configEdit:
		return runConfigWizard(cmd)
	case configSetProvider != "":
		return runConfigSetProvider(cmd, configSetProvider)
	case configSetAPIKey != "":
		return runConfigSetAPIKey(cmd, domain.ProviderGemini, configSetAPIKey)
	case configSetClaudeKey != "":
		return runConfigSetAPIKey(cmd, domain.ProviderClaude, configSetClaudeKey)
	default:
		return runConfigShow(cmd)
	}
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := configStore.Load()
	if err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())
	if cfg.ActiveProvider != "" {
		cmd.Printf("Active provider: %s\n", cfg.ActiveProvider)
	} else {
		cmd.Println("Active provider: (not set)")
	}
	cmd.Println()

	if cfg.Gemini != nil {
		cmd.Println("[Gemini]")
		cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.Gemini.APIKey))
		cmd.Printf("  Model: %s\n", valueOr(cfg.Gemini.Model, gemini.DefaultModel))
		cmd.Println()
	}
	if cfg.Claude != nil {
		cmd.Println("[Claude]")
		cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.Claude.APIKey))
		cmd.Printf("  Model: %s\n", valueOr(cfg.Claude.Model, anthropic.DefaultModel))
		cmd.Println()
	}
	if cfg.Ollama != nil {
		cmd.Println("[Ollama]")
		cmd.Printf("  URL: %s\n", valueOr(cfg.Ollama.URL, ollama.DefaultBaseURL))
		cmd.Printf("  Model: %s\n", valueOr(cfg.Ollama.Model, ollama.DefaultModel))
		cmd.Println()
	}
	if cfg.OpenAI != nil {
		cmd.Println("[OpenAI-compatible]")
		cmd.Printf("  URL: %s\n", valueOr(cfg.OpenAI.URL, openai.DefaultBaseURL))
		cmd.Printf("  Model: %s\n", cfg.OpenAI.Model)
		if cfg.OpenAI.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.OpenAI.APIKey))
		}
		cmd.Println()
	}
	if cfg.Notion != nil {
		cmd.Println("[Notion]")
		cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.Notion.APIKey))
		cmd.Printf("  Database ID: %s\n", cfg.Notion.DatabaseID)
		if cfg.Notion.TitleProperty != "" {
			cmd.Printf("  Title property: %s\n", cfg.Notion.TitleProperty)
		}
		cmd.Println()
	}

	return nil
}

func runConfigWizard(cmd *cobra.Command) error {
	// Start from the existing configuration when there is one.
	cfg, err := configStore.Load()
	if errors.Is(err, domain.ErrConfigMissing) {
		cfg = &domain.Config{}
	} else if err != nil {
		return err
	}

	cmd.Println("noted.md Setup Wizard")
	cmd.Println("=====================")
	if configStore.Exists() {
		cmd.Printf("Editing %s\n", configStore.Path())
	} else {
		cmd.Printf("Creating %s\n", configStore.Path())
	}
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	// Step 1: provider
	cmd.Println("Step 1: Select AI Provider")
	cmd.Println("--------------------------")
	providers := domain.AllProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	// Step 2: provider details
	cmd.Println()
	cmd.Printf("Step 2: Configure %s\n", selected.Description())
	cmd.Println("--------------------------")
	if err := configureProvider(cmd, reader, cfg, selected); err != nil {
		return err
	}
	cfg.ActiveProvider = selected

	// Step 3: optional Notion integration
	cmd.Println()
	cmd.Println("Step 3: Notion Integration (optional)")
	cmd.Println("-------------------------------------")
	cmd.Print("Send converted notes to Notion? [y/N]: ")
	if strings.EqualFold(readLine(reader), "y") {
		if err := configureNotion(cmd, reader, cfg); err != nil {
			return err
		}
	}

	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	cmd.Println()
	cmd.Printf("Configuration saved to %s\n", configStore.Path())
	return nil
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, cfg *domain.Config, provider domain.Provider) error {
	switch provider {
	case domain.ProviderGemini:
		cmd.Print("Enter Gemini API key: ")
		apiKey := readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for Gemini")
		}
		model := promptModel(cmd, reader, gemini.DefaultModel)
		cfg.Gemini = &domain.GeminiConfig{APIKey: apiKey, Model: model}

	case domain.ProviderClaude:
		cmd.Print("Enter Claude API key: ")
		apiKey := readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for Claude")
		}
		model := promptModel(cmd, reader, anthropic.DefaultModel)
		cfg.Claude = &domain.ClaudeConfig{APIKey: apiKey, Model: model}

	case domain.ProviderOllama:
		cmd.Printf("Enter Ollama URL [%s]: ", ollama.DefaultBaseURL)
		url := valueOr(readLine(reader), ollama.DefaultBaseURL)
		model := promptModel(cmd, reader, ollama.DefaultModel)
		cfg.Ollama = &domain.OllamaConfig{URL: url, Model: model}

	case domain.ProviderOpenAI:
		cmd.Printf("Enter server URL [%s]: ", openai.DefaultBaseURL)
		url := valueOr(readLine(reader), openai.DefaultBaseURL)
		cmd.Print("Enter model name: ")
		model := readLine(reader)
		if model == "" {
			return errors.New("model name is required for OpenAI-compatible servers")
		}
		cmd.Print("Enter API key (leave empty for local servers): ")
		apiKey := readPassword()
		cmd.Println()
		cfg.OpenAI = &domain.OpenAIConfig{URL: url, Model: model, APIKey: apiKey}

	default:
		return fmt.Errorf("%w: unknown provider %q", domain.ErrConfigInvalid, provider)
	}
	return nil
}

func configureNotion(cmd *cobra.Command, reader *bufio.Reader, cfg *domain.Config) error {
	cmd.Print("Enter Notion API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for Notion")
	}
	cmd.Print("Enter Notion database ID: ")
	databaseID := readLine(reader)
	if databaseID == "" {
		return errors.New("database ID is required for Notion")
	}
	cmd.Print("Enter title property name [Name]: ")
	titleProperty := readLine(reader)

	cfg.Notion = &domain.NotionConfig{
		APIKey:        apiKey,
		DatabaseID:    databaseID,
		TitleProperty: titleProperty,
	}
	return nil
}

func runConfigSetProvider(cmd *cobra.Command, name string) error {
	provider := domain.Provider(strings.ToLower(name))
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q (choose from: %s)",
			domain.ErrConfigInvalid, name, providerNames())
	}

	cfg, err := configStore.Load()
	if err != nil {
		return err
	}
	if !cfg.ProviderConfigured(provider) {
		return fmt.Errorf("%w: %s (run 'notedmd config --edit' to configure it)",
			domain.ErrProviderNotConfigured, provider)
	}

	cfg.ActiveProvider = provider
	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	cmd.Printf("Active provider set to %s.\n", provider)
	return nil
}

// runConfigSetAPIKey stores a key for a cloud provider and makes it
// active, creating the config file on first use.
func runConfigSetAPIKey(cmd *cobra.Command, provider domain.Provider, apiKey string) error {
	cfg, err := configStore.Load()
	if errors.Is(err, domain.ErrConfigMissing) {
		cfg = &domain.Config{}
	} else if err != nil {
		return err
	}

	switch provider {
	case domain.ProviderGemini:
		if cfg.Gemini == nil {
			cfg.Gemini = &domain.GeminiConfig{Model: gemini.DefaultModel}
		}
		cfg.Gemini.APIKey = apiKey
	case domain.ProviderClaude:
		if cfg.Claude == nil {
			cfg.Claude = &domain.ClaudeConfig{Model: anthropic.DefaultModel}
		}
		cfg.Claude.APIKey = apiKey
	default:
		return fmt.Errorf("%w: no API key for provider %q", domain.ErrConfigInvalid, provider)
	}
	cfg.ActiveProvider = provider

	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	cmd.Printf("API key saved. Active provider set to %s.\n", provider)
	return nil
}

// Helper functions.

func promptModel(cmd *cobra.Command, reader *bufio.Reader, defaultModel string) string {
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	return valueOr(readLine(reader), defaultModel)
}

func providerNames() string {
	providers := domain.AllProviders()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

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

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
