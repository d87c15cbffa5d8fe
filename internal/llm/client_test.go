package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}},
		}},
	}

	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)
}

func TestExtractTextFromResponse_Empty(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = extractTextFromResponse(nil)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestNewClient_Providers(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultGeminiConfig(), "")
	assert.Error(t, err, "Gemini requires an API key")

	client, err := NewClient(context.Background(), DefaultAnthropicConfig(), "key")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, client.Provider())

	_, err = NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	assert.ErrorContains(t, err, "unsupported")
}
