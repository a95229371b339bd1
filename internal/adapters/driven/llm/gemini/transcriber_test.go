package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriber_RequiresAPIKey(t *testing.T) {
	_, err := NewTranscriber(Config{})
	assert.Error(t, err)
}

func TestNewTranscriber_Defaults(t *testing.T) {
	tr, err := NewTranscriber(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, tr.ModelName())
	assert.NoError(t, tr.Close())
}

func TestNewTranscriber_CustomModel(t *testing.T) {
	tr, err := NewTranscriber(Config{APIKey: "test-key", Model: "gemini-2.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", tr.ModelName())
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "# Title\n", cleanMarkdown("```markdown\n# Title\n```"))
	assert.Equal(t, "plain", cleanMarkdown("plain"))
}
