package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

func TestResolveAPIKey(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		convertAPIKey = "flag-key"
		defer func() { convertAPIKey = "" }()

		assert.Equal(t, "flag-key", resolveAPIKey(domain.ProviderGemini))
	})

	t.Run("gemini reads GEMINI_API_KEY", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-gemini")
		assert.Equal(t, "env-gemini", resolveAPIKey(domain.ProviderGemini))
	})

	t.Run("claude reads ANTHROPIC_API_KEY", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "env-claude")
		assert.Equal(t, "env-claude", resolveAPIKey(domain.ProviderClaude))
	})

	t.Run("local providers have no environment key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-gemini")
		assert.Empty(t, resolveAPIKey(domain.ProviderOllama))
		assert.Empty(t, resolveAPIKey(domain.ProviderOpenAI))
	})
}

func TestNotionConfigWithEnv(t *testing.T) {
	t.Run("no env returns stored config", func(t *testing.T) {
		t.Setenv("NOTION_API_KEY", "")
		cfg := &domain.NotionConfig{APIKey: "stored", DatabaseID: "db-1"}
		assert.Same(t, cfg, notionConfigWithEnv(cfg))
	})

	t.Run("env key overlays stored config", func(t *testing.T) {
		t.Setenv("NOTION_API_KEY", "from-env")
		cfg := &domain.NotionConfig{APIKey: "stored", DatabaseID: "db-1", TitleProperty: "Title"}

		overlaid := notionConfigWithEnv(cfg)

		assert.Equal(t, "from-env", overlaid.APIKey)
		assert.Equal(t, "db-1", overlaid.DatabaseID)
		assert.Equal(t, "Title", overlaid.TitleProperty)
		// The stored config is not mutated.
		assert.Equal(t, "stored", cfg.APIKey)
	})

	t.Run("env key with no stored config", func(t *testing.T) {
		t.Setenv("NOTION_API_KEY", "from-env")

		overlaid := notionConfigWithEnv(nil)

		require.NotNil(t, overlaid)
		assert.Equal(t, "from-env", overlaid.APIKey)
	})
}

func TestConvertCmd_MissingConfig(t *testing.T) {
	setupConfigStore(t)

	_, err := executeCommand(t, "convert", "notes.pdf")

	assert.ErrorIs(t, err, domain.ErrConfigMissing)
}

func TestConvertCmd_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "# Lecture Notes\n"}) //nolint:errcheck
	}))
	defer server.Close()

	store := setupConfigStore(t)
	require.NoError(t, store.Save(&domain.Config{
		ActiveProvider: domain.ProviderOllama,
		Ollama:         &domain.OllamaConfig{URL: server.URL, Model: "gemma3:27b"},
	}))

	previousHistory := historyDataDir
	SetHistoryDataDir(t.TempDir())
	t.Cleanup(func() { historyDataDir = previousHistory })

	dir := t.TempDir()
	source := filepath.Join(dir, "lecture.png")
	require.NoError(t, os.WriteFile(source, []byte("img"), 0o644))

	out, err := executeCommand(t, "convert", source, "--plain")

	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 file(s) converted.")

	content, err := os.ReadFile(filepath.Join(dir, "lecture.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Lecture Notes\n", string(content))
}

func TestConvertCmd_FailedJobReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	store := setupConfigStore(t)
	require.NoError(t, store.Save(&domain.Config{
		ActiveProvider: domain.ProviderOllama,
		Ollama:         &domain.OllamaConfig{URL: server.URL, Model: "gemma3:27b"},
	}))

	previousHistory := historyDataDir
	SetHistoryDataDir(t.TempDir())
	t.Cleanup(func() { historyDataDir = previousHistory })

	dir := t.TempDir()
	source := filepath.Join(dir, "scan.jpg")
	require.NoError(t, os.WriteFile(source, []byte("img"), 0o644))

	_, err := executeCommand(t, "convert", source, "--plain")

	assert.ErrorIs(t, err, domain.ErrJobsFailed)
	assert.NoFileExists(t, filepath.Join(dir, "scan.md"))
}

func TestConvertCmd_NotionWithoutConfig(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, store.Save(geminiConfig()))
	t.Setenv("NOTION_API_KEY", "")

	_, err := executeCommand(t, "convert", "notes.pdf", "--notion", "--plain")

	assert.ErrorIs(t, err, domain.ErrNotionNotConfigured)
}

func TestPrintSummary(t *testing.T) {
	summary := &domain.BatchSummary{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Results: []domain.ConversionResult{
			{
				Job:        domain.ConversionJob{SourcePath: "/notes/a.pdf"},
				Status:     domain.JobDone,
				OutputPath: "/notes/a.md",
				NotionURL:  "https://notion.so/a",
			},
			{
				Job:        domain.ConversionJob{SourcePath: "/notes/b.pdf"},
				Status:     domain.JobDone,
				OutputPath: "/notes/b.md",
				NotionErr:  errors.New("rate limited"),
			},
			{
				Job:    domain.ConversionJob{SourcePath: "/notes/c.pdf"},
				Status: domain.JobFailed,
				Err:    errors.New("transcription failed"),
			},
		},
	}

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	printSummary(cmd, summary)

	out := buf.String()
	assert.Contains(t, out, "[ok]   /notes/a.pdf -> /notes/a.md")
	assert.Contains(t, out, "notion: https://notion.so/a")
	assert.Contains(t, out, "notion failed: rate limited")
	assert.Contains(t, out, "[fail] /notes/c.pdf: transcription failed")
	assert.Contains(t, out, "2 of 3 file(s) converted.")
}
