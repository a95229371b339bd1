package domain

import "fmt"

// Config is the persisted application configuration. Exactly one provider
// is active at a time; the others may be configured but dormant. The
// Notion section is independent of the provider choice.
type Config struct {
	// ActiveProvider names the provider used by 'convert'.
	ActiveProvider Provider `toml:"active_provider,omitempty"`

	Gemini *GeminiConfig `toml:"gemini,omitempty"`
	Claude *ClaudeConfig `toml:"claude,omitempty"`
	Ollama *OllamaConfig `toml:"ollama,omitempty"`
	OpenAI *OpenAIConfig `toml:"openai,omitempty"`
	Notion *NotionConfig `toml:"notion,omitempty"`
}

// GeminiConfig holds Gemini API credentials.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`

	// Model is the Gemini model name (default applied by the adapter).
	Model string `toml:"model,omitempty"`
}

// ClaudeConfig holds Anthropic API credentials.
type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model,omitempty"`
}

// OllamaConfig points at a local Ollama server.
type OllamaConfig struct {
	URL   string `toml:"url"`
	Model string `toml:"model"`
}

// OpenAIConfig points at any OpenAI-compatible server.
// The API key is optional; local servers usually run without one.
type OpenAIConfig struct {
	URL    string `toml:"url"`
	Model  string `toml:"model"`
	APIKey string `toml:"api_key,omitempty"`
}

// NotionConfig holds credentials for the optional Notion sink.
type NotionConfig struct {
	APIKey     string `toml:"api_key"`
	DatabaseID string `toml:"database_id"`

	// TitleProperty is the database's title column. Defaults to "Name".
	TitleProperty string `toml:"title_property,omitempty"`
}

// ProviderConfigured reports whether the named provider has all
// required fields populated.
func (c *Config) ProviderConfigured(p Provider) bool {
	switch p {
	case ProviderGemini:
		return c.Gemini != nil && c.Gemini.APIKey != ""
	case ProviderClaude:
		return c.Claude != nil && c.Claude.APIKey != "" && c.Claude.Model != ""
	case ProviderOllama:
		return c.Ollama != nil && c.Ollama.URL != "" && c.Ollama.Model != ""
	case ProviderOpenAI:
		return c.OpenAI != nil && c.OpenAI.URL != "" && c.OpenAI.Model != ""
	default:
		return false
	}
}

// NotionConfigured reports whether the Notion sink can be used.
func (c *Config) NotionConfigured() bool {
	return c.Notion != nil && c.Notion.APIKey != "" && c.Notion.DatabaseID != ""
}

// Validate checks that the active provider is set and fully configured.
// Absence of required fields is a configuration error, never a crash.
func (c *Config) Validate() error {
	if c.ActiveProvider == "" {
		return ErrNoActiveProvider
	}
	if !c.ActiveProvider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", ErrConfigInvalid, c.ActiveProvider)
	}
	if !c.ProviderConfigured(c.ActiveProvider) {
		return fmt.Errorf("%w: %s", ErrProviderNotConfigured, c.ActiveProvider)
	}
	return nil
}
