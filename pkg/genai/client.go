// Package genai wraps the Anthropic API behind the small text-generation
// interface the analysis core needs: one prompt in, one text completion
// out, with deterministic sampling for SQL generation.
package genai

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options controls a single generation call.
type Options struct {
	// MaxTokens bounds the output length. Defaults to 1024.
	MaxTokens int64
	// Temperature is the sampling temperature. SQL generation uses 0
	// for deterministic output.
	Temperature float64
}

// Generator produces text from a prompt. Implementations are expected
// to be safe for sequential reuse within a session.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

const defaultMaxTokens = 1024

// Client implements Generator using the official anthropic-sdk-go.
type Client struct {
	client  sdk.Client
	model   string
	limiter *rate.Limiter
}

// NewClient creates a rate-limited Anthropic-backed generator. rps caps
// generation calls per second; zero or negative disables limiting.
func NewClient(apiKey, model string, rps float64) *Client {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Client{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
		model:   model,
		limiter: limiter,
	}
}

// Generate sends the prompt and returns the concatenated text blocks of
// the response, trimmed of surrounding whitespace.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "genai: rate limit wait")
		}
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(opts.Temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "genai: create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	zap.L().Debug("generation complete",
		zap.String("model", c.model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return strings.TrimSpace(b.String()), nil
}
