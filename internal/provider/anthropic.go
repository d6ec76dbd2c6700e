package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/alnah/go-ebookgen"
)

// APIKeyEnv names the environment variable holding the Anthropic API key.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// Defaults for AnthropicConfig zero values.
const (
	DefaultModel          = "claude-3-5-sonnet-latest"
	DefaultMaxTokens      = 4096
	DefaultRequestTimeout = 2 * time.Minute
	DefaultMaxRetries     = 2
)

// AnthropicConfig configures the Anthropic messenger.
type AnthropicConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int64
	Temperature    float64
	RequestTimeout time.Duration
	MaxRetries     int    // zero uses DefaultMaxRetries, negative disables retries
	BaseURL        string // empty uses the public API
}

// AnthropicMessenger sends prompts to the Anthropic Messages API.
type AnthropicMessenger struct {
	client      *anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

var _ Messenger = (*AnthropicMessenger)(nil)

// NewAnthropicMessenger returns an error wrapping ErrProviderUnavailable
// when no API key is configured, so a run fails before any request.
func NewAnthropicMessenger(cfg AnthropicConfig) (*AnthropicMessenger, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("%w: %s is not set", ebookgen.ErrProviderUnavailable, APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithRequestTimeout(cfg.RequestTimeout),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicMessenger{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the configured model name.
func (m *AnthropicMessenger) Model() string {
	return m.model
}

// Send issues one Messages request and concatenates the text blocks of the
// reply. Rejected credentials map to ErrProviderUnavailable.
func (m *AnthropicMessenger) Send(ctx context.Context, system, user string) (string, error) {
	message, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(m.model)),
		MaxTokens:   anthropic.F(m.maxTokens),
		Temperature: anthropic.F(m.temperature),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		}),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		}),
	})
	if err != nil {
		return "", classifyError(err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		b.WriteString(block.Text)
	}
	if b.Len() == 0 {
		return "", ErrEmptyReply
	}
	return b.String(), nil
}

// classifyError separates fatal credential failures from per-call ones.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ebookgen.ErrProviderUnavailable, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrRequest, err)
}
