package file

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestConfigStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
	assert.False(t, store.Exists())
}

func TestConfigStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)

	cfg := &domain.Config{
		ActiveProvider: domain.ProviderClaude,
		Claude: &domain.ClaudeConfig{
			APIKey: "sk-ant-test",
			Model:  "claude-sonnet-4-20250514",
		},
		Ollama: &domain.OllamaConfig{
			URL:   "http://localhost:11434",
			Model: "gemma3:27b",
		},
		Notion: &domain.NotionConfig{
			APIKey:     "ntn-test",
			DatabaseID: "abc123",
		},
	}
	require.NoError(t, store.Save(cfg))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0o600))

	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestConfigStore_SaveSetsRestrictivePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	store, _ := newTestStore(t)
	require.NoError(t, store.Save(&domain.Config{ActiveProvider: domain.ProviderGemini}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Save(&domain.Config{ActiveProvider: domain.ProviderGemini}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestConfigStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(&domain.Config{ActiveProvider: domain.ProviderGemini}))
	require.NoError(t, store.Save(&domain.Config{ActiveProvider: domain.ProviderOllama}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOllama, loaded.ActiveProvider)
}

func TestConfigStore_Path(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_OmitsEmptySections(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(&domain.Config{
		ActiveProvider: domain.ProviderGemini,
		Gemini:         &domain.GeminiConfig{APIKey: "key"},
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[gemini]")
	assert.NotContains(t, content, "[claude]")
	assert.NotContains(t, content, "[notion]")
}
