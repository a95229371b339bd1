package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/config/file"
	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

// setupConfigStore points the CLI at a throwaway config directory and
// restores the previous store when the test finishes.
func setupConfigStore(t *testing.T) *file.ConfigStore {
	t.Helper()

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	previous := configStore
	SetConfigStore(store)
	t.Cleanup(func() { configStore = previous })

	return store
}

// executeCommand runs the root command with the given args and captures
// its output. Package-level flag state is reset afterwards so tests do
// not leak into each other.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	configEdit = false
	configShow = false
	configShowPath = false
	configSetProvider = ""
	configSetAPIKey = ""
	configSetClaudeKey = ""

	convertOutputDir = ""
	convertPrompt = ""
	convertAPIKey = ""
	convertNotion = false
	convertJobs = 1
	convertPlain = false

	watchOutputDir = ""
	watchPrompt = ""
	watchNotion = false

	historyLimit = 20
	historyFailed = false

	verbose = false
}

// geminiConfig is a minimal valid configuration for command tests.
func geminiConfig() *domain.Config {
	return &domain.Config{
		ActiveProvider: domain.ProviderGemini,
		Gemini:         &domain.GeminiConfig{APIKey: "AIza-test-key-1234"},
	}
}
