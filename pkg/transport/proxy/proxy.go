// Package proxy forwards composed requests to a presentation backend that
// owns the generation service credentials.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/httpclient"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/transport"
)

// DefaultEndpoint is resolved against the configured base URL.
const DefaultEndpoint = "/api/generate"

const fallbackHint = "The presentation backend is unavailable; switch to the direct transport or run 'slidecraft compose' and paste the prompt into Claude"

// maxErrorBody bounds how much of an error body is quoted back to the user.
const maxErrorBody = 512

type Config struct {
	BaseURL  string
	Endpoint string
	Timeout  time.Duration
}

// Transport implements transport.Transport with a JSON POST.
type Transport struct {
	endpoint string
	client   *http.Client
}

var _ transport.Transport = (*Transport)(nil)

// requestBody is the wire shape the backend expects.
type requestBody struct {
	Mode       form.Mode `json:"mode"`
	Theme      string    `json:"theme"`
	FormData   any       `json:"formData"`
	TemplateID *string   `json:"templateId"`
	Prompt     string    `json:"prompt"`
}

type responseBody struct {
	Message  *string `json:"message"`
	Filepath *string `json:"filepath"`
}

func New(cfg Config, opts ...httpclient.Opt) (*Transport, error) {
	endpoint, err := ResolveEndpoint(cfg.BaseURL, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	opts = append([]httpclient.Opt{
		httpclient.WithHeader("Accept", "application/json"),
		httpclient.WithTimeout(cfg.Timeout),
	}, opts...)

	return &Transport{
		endpoint: endpoint,
		client:   httpclient.NewHTTPClient(opts...),
	}, nil
}

// ResolveEndpoint joins a relative endpoint with baseURL. An absolute
// endpoint is used as is; an empty one means DefaultEndpoint.
func ResolveEndpoint(baseURL, endpoint string) (string, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid proxy endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	if baseURL == "" {
		return "", fmt.Errorf("proxy endpoint %q is relative and no base URL is configured", endpoint)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid proxy base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("proxy base URL %q must be absolute", baseURL)
	}

	return base.ResolveReference(ref).String(), nil
}

func (t *Transport) Name() string {
	return "proxy"
}

// Endpoint is the absolute URL requests are posted to.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

func (t *Transport) Send(ctx context.Context, req *prompt.Request) (*transport.Response, error) {
	body := requestBody{
		Mode:     req.Mode,
		Theme:    req.ThemeID,
		FormData: req.Payload(),
		Prompt:   req.PromptText,
	}
	if req.TemplateID != "" {
		body.TemplateID = &req.TemplateID
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding proxy request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("creating proxy request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", req.ID)

	slog.Debug("Posting request to presentation backend", "request_id", req.ID, "endpoint", t.endpoint)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("reaching presentation backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Debug("Presentation backend returned an error", "request_id", req.ID, "status", resp.StatusCode)
		return nil, &transport.StatusError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(detail),
			Hint:       fallbackHint,
		}
	}

	var out responseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", transport.ErrMalformedResponse)
		}
		return nil, fmt.Errorf("%w: %w", transport.ErrMalformedResponse, err)
	}
	if out.Message == nil && out.Filepath == nil {
		return nil, fmt.Errorf("%w: neither message nor filepath present", transport.ErrMalformedResponse)
	}

	r := &transport.Response{}
	if out.Message != nil {
		r.Message = *out.Message
	}
	if out.Filepath != nil {
		r.Filepath = *out.Filepath
	}
	return r, nil
}

// errorDetail prefers a JSON {"error": "..."} or {"message": "..."} field and
// falls back to the trimmed body text.
func errorDetail(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(body))
}
