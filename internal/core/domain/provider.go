package domain

const unknownDescription = "Unknown"

// Provider identifies an AI backend capable of transcribing note files.
type Provider string

// Available providers.
const (
	// ProviderGemini is the Google Gemini cloud API.
	ProviderGemini Provider = "gemini"

	// ProviderClaude is the Anthropic cloud API.
	ProviderClaude Provider = "claude"

	// ProviderOllama is a local Ollama instance.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAI is any OpenAI-compatible server (OpenAI, LM Studio, vLLM).
	ProviderOpenAI Provider = "openai"
)

// AllProviders returns every provider in wizard display order.
func AllProviders() []Provider {
	return []Provider{ProviderGemini, ProviderClaude, ProviderOllama, ProviderOpenAI}
}

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderClaude, ProviderOllama, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
// The OpenAI-compatible provider accepts an optional key, so it is
// not listed here.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderGemini || p == ProviderClaude
}

// IsLocal returns true if this provider typically runs on the user's machine.
func (p Provider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderGemini:
		return "Gemini API (cloud, requires API key)"
	case ProviderClaude:
		return "Claude API (cloud, requires API key)"
	case ProviderOllama:
		return "Ollama (local)"
	case ProviderOpenAI:
		return "OpenAI-compatible API (cloud or local, works with LM Studio)"
	default:
		return unknownDescription
	}
}
