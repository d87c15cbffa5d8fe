package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultGenerationTimeout bounds a single provider call.
const DefaultGenerationTimeout = 60 * time.Second

// Generator turns built requests into generation results. It applies the
// timeout, picks the model for the task tier, and maps provider failures to
// error kinds. It never retries.
type Generator struct {
	client  Client
	config  *Config
	timeout time.Duration
	verbose bool
}

// NewGenerator creates a Generator. A nil client produces ServiceUnavailable
// results; a nil config uses the client's provider defaults.
func NewGenerator(client Client, config *Config, timeout time.Duration, verbose bool) *Generator {
	if config == nil {
		config = DefaultConfig()
		if client != nil {
			config = ConfigForProvider(string(client.Provider()))
		}
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Generator{client: client, config: config, timeout: timeout, verbose: verbose}
}

// Generate executes one request.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) types.GenerationResult {
	if g == nil || g.client == nil {
		return failed(types.ErrorKindServiceUnavailable, "generation service is not configured")
	}

	params := req.Params
	if params.Model == "" {
		params.Model = g.config.GetModel(TierForTask(req.Task))
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	if g.verbose {
		log.Printf("[VERBOSE] Generating %s with %s/%s (temperature %.2f, max tokens %d)",
			req.Task, g.client.Provider(), params.Model, params.Temperature, params.MaxTokens)
	}

	content, err := g.client.GenerateContent(callCtx, Prompt{System: req.SystemPrompt, User: req.Prompt}, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return failed(types.ErrorKindUpstreamTimeout, fmt.Sprintf("generation timed out after %s", g.timeout))
		}
		return failed(types.ErrorKindUpstream, err.Error())
	}

	if params.JSON {
		content = CleanJSONBlock(content)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return failed(types.ErrorKindUpstream, ErrNoContent.Error())
	}

	if g.verbose {
		log.Printf("[VERBOSE] Generated %d chars in %s", len(content), time.Since(start).Round(time.Millisecond))
	}

	return types.GenerationResult{Success: true, Content: content}
}

// Close releases the underlying client.
func (g *Generator) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func failed(kind types.ErrorKind, detail string) types.GenerationResult {
	return types.GenerationResult{Success: false, ErrorKind: kind, ErrorDetail: detail}
}
