package anthropic

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
)

func TestNewTranscriber_RequiresAPIKey(t *testing.T) {
	_, err := NewTranscriber(Config{})
	assert.Error(t, err)
}

func TestNewTranscriber_Defaults(t *testing.T) {
	tr, err := NewTranscriber(Config{APIKey: "sk-ant-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, tr.ModelName())
}

func textResponse(text string) string {
	return `{"content": [{"type": "text", "text": ` + mustJSON(text) + `}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s) //nolint:errcheck
	return string(b)
}

func TestTranscriber_Transcribe(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(textResponse("# Notes\n\n- item\n"))) //nolint:errcheck
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "sk-ant-test", BaseURL: server.URL})
	require.NoError(t, err)

	markdown, err := tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("image-bytes"),
		MIMEType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\n- item\n", markdown)

	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 2)
	assert.Equal(t, "text", captured.Messages[0].Content[0].Type)
	assert.Equal(t, defaultPrompt, captured.Messages[0].Content[0].Text)

	block := captured.Messages[0].Content[1]
	assert.Equal(t, "image", block.Type)
	require.NotNil(t, block.Source)
	assert.Equal(t, "image/png", block.Source.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("image-bytes")), block.Source.Data)
}

func TestTranscriber_PDFUsesDocumentBlock(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(textResponse("ok"))) //nolint:errcheck
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("%PDF-1.4"),
		MIMEType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "document", captured.Messages[0].Content[1].Type)
}

func TestTranscriber_CustomPromptReplacesDefault(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(textResponse("ok"))) //nolint:errcheck
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("x"),
		MIMEType: "image/jpeg",
		Prompt:   "just the headings",
	})
	require.NoError(t, err)
	assert.Equal(t, "just the headings", captured.Messages[0].Content[0].Text)
}

func TestTranscriber_StripsMarkdownFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(textResponse("```markdown\n# Title\n```"))) //nolint:errcheck
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	markdown, err := tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("x"),
		MIMEType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", markdown)
}

func TestTranscriber_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("x"),
		MIMEType: "image/png",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)
	assert.ErrorIs(t, err, domain.ErrTranscriptionFailed)
}

func TestTranscriber_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("x"),
		MIMEType: "image/png",
	})
	require.ErrorIs(t, err, domain.ErrTranscriptionFailed)

	var rateLimitErr *domain.RateLimitError
	require.ErrorAs(t, err, &rateLimitErr)
	assert.Equal(t, 30, rateLimitErr.RetryAfterSeconds)
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 30, retryAfterSeconds("30"))
	assert.Equal(t, 5, retryAfterSeconds(" 5 "))
	assert.Equal(t, 0, retryAfterSeconds(""))
	assert.Equal(t, 0, retryAfterSeconds("-1"))
	assert.Equal(t, 0, retryAfterSeconds("Wed, 21 Oct 2026 07:28:00 GMT"))
}

func TestTranscriber_APIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "too large"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("x"),
		MIMEType: "image/png",
	})
	require.ErrorIs(t, err, domain.ErrTranscriptionFailed)
	assert.Contains(t, err.Error(), "too large")
}

func TestTranscriber_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content": []}`)) //nolint:errcheck
	}))
	defer server.Close()

	tr, err := NewTranscriber(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), driven.TranscriptionRequest{
		Data:     []byte("x"),
		MIMEType: "image/png",
	})
	assert.ErrorIs(t, err, domain.ErrTranscriptionFailed)
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "# Title\n", cleanMarkdown("```markdown\n# Title\n```"))
	assert.Equal(t, "plain text", cleanMarkdown("plain text"))
	assert.Equal(t, "", cleanMarkdown("```markdown\n```"))
}
