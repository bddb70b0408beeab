// Package llm sends invitation prompts to the Anthropic Messages API.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/oducru/runclub/pkg/logger"
	"github.com/oducru/runclub/pkg/metrics"
)

// ErrEmptyResponse is returned when the reply carries no text block.
var ErrEmptyResponse = errors.New("model returned no text content")

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is a Generator backed by the Anthropic SDK. A request is sent once;
// failures are not retried.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	log       logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*settings)

type settings struct {
	baseURL string
	model   string
	max     int64
	log     logger.Logger
	extra   []option.RequestOption
}

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.max = int64(n)
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRequestOptions passes raw SDK request options through.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(s *settings) { s.extra = append(s.extra, opts...) }
}

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

// DefaultMaxTokens is used when no token cap is configured.
const DefaultMaxTokens = 500

// New creates a Client authenticating with apiKey.
func New(apiKey string, opts ...Option) *Client {
	s := settings{model: DefaultModel, max: DefaultMaxTokens, log: logger.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if s.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(s.baseURL))
	}
	reqOpts = append(reqOpts, s.extra...)

	return &Client{
		api:       anthropic.NewClient(reqOpts...),
		model:     s.model,
		maxTokens: s.max,
		log:       s.log,
	}
}

// Generate sends prompt as a single user message and returns the text of
// the first text block in the reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	metrics.RecordUpstreamCall("anthropic", "messages.new", err, ms)
	if err != nil {
		c.log.Warn(ctx, "generation failed",
			logger.String("model", c.model),
			logger.Float64("latency_ms", ms),
			logger.Error(err))
		return "", err
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			c.log.Debug(ctx, "generation done",
				logger.String("model", c.model),
				logger.Float64("latency_ms", ms),
				logger.Int("output_tokens", int(msg.Usage.OutputTokens)))
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
