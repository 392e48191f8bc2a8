// Package direct sends composed prompts straight to the Anthropic Messages API.
package direct

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/slidecraft/slidecraft/pkg/httpclient"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/transport"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4000
)

// fallbackHint is appended to status errors so the user knows the request
// text can still be used by hand.
const fallbackHint = "Check the API key and credits, or run 'slidecraft compose' and paste the prompt into Claude directly"

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint, e.g. for a test server.
	BaseURL string
	Timeout time.Duration
}

// Transport implements transport.Transport on top of the Anthropic SDK.
type Transport struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ transport.Transport = (*Transport)(nil)

func New(cfg Config) (*Transport, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("an Anthropic API key is required for the direct transport")
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpclient.NewHTTPClient(httpclient.WithTimeout(cfg.Timeout))),
		// One submission, one request.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(cfg.BaseURL))
	}

	t := &Transport{
		client:    anthropic.NewClient(requestOptions...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if t.model == "" {
		t.model = DefaultModel
	}
	if t.maxTokens <= 0 {
		t.maxTokens = DefaultMaxTokens
	}

	return t, nil
}

func (t *Transport) Name() string {
	return "direct"
}

func (t *Transport) Send(ctx context.Context, req *prompt.Request) (*transport.Response, error) {
	slog.Debug("Sending request to Anthropic", "request_id", req.ID, "model", t.model, "max_tokens", t.maxTokens)

	msg, err := t.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(t.model),
		MaxTokens: t.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.PromptText)),
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(msg.Content) == 0 || msg.Content[0].Type != "text" {
		return nil, fmt.Errorf("%w: expected text content in first block", transport.ErrMalformedResponse)
	}

	slog.Debug("Anthropic response received", "request_id", req.ID, "stop_reason", msg.StopReason)

	return &transport.Response{
		Message: msg.Content[0].Text,
	}, nil
}

func classify(err error) error {
	if apiErr, ok := errors.AsType[*anthropic.Error](err); ok {
		return &transport.StatusError{
			StatusCode: apiErr.StatusCode,
			Detail:     errorMessage(apiErr.RawJSON()),
			Hint:       fallbackHint,
		}
	}

	if _, ok := errors.AsType[*json.SyntaxError](err); ok {
		return fmt.Errorf("%w: %w", transport.ErrMalformedResponse, err)
	}
	if _, ok := errors.AsType[*json.UnmarshalTypeError](err); ok {
		return fmt.Errorf("%w: %w", transport.ErrMalformedResponse, err)
	}

	return fmt.Errorf("reaching Anthropic API: %w", err)
}

// errorMessage pulls error.message out of an API error body.
func errorMessage(raw string) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(raw), &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.Error.Message)
}
