package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonathan/resume-tailor/internal/types"
)

// defaultAnthropicMaxTokens is used when a request does not set MaxTokens; the
// Messages API requires a value.
const defaultAnthropicMaxTokens = 1024

// AnthropicClient implements Client for Anthropic Claude
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client. SDK retries are off;
// a failed call is reported to the caller as is.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts = append([]option.RequestOption{option.WithMaxRetries(0), option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{client: anthropic.NewClient(opts...)}, nil
}

// GenerateContent generates text with the model named in params
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt Prompt, params types.GenerationParams) (string, error) {
	if params.Model == "" {
		return "", fmt.Errorf("no model configured")
	}

	maxTokens := int64(params.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	req := anthropic.MessageNewParams{
		Model:       anthropic.Model(params.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(params.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt.User},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if prompt.System != "" {
		req.System = []anthropic.TextBlockParam{{Text: prompt.System}}
	}

	message, err := c.client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.AsText().Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("empty response from Claude: %w", ErrNoContent)
	}

	return strings.Join(parts, ""), nil
}

// Provider returns ProviderAnthropic
func (c *AnthropicClient) Provider() Provider {
	return ProviderAnthropic
}

// Close is a no-op; the HTTP client needs no cleanup.
func (c *AnthropicClient) Close() error {
	return nil
}
