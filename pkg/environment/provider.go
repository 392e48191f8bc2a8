// Package environment resolves credentials and settings from the process
// environment and from dotenv files.
package environment

import "context"

type Provider interface {
	// Get retrieves the value of an environment variable by name.
	// Returns (value, true) if found (value may be empty).
	// Returns ("", false) if not found.
	Get(ctx context.Context, name string) (string, bool)
}

// Names used by slidecraft.
const (
	AnthropicAPIKey  = "ANTHROPIC_API_KEY"
	AnthropicBaseURL = "ANTHROPIC_BASE_URL"
	ProxyBaseURL     = "SLIDECRAFT_PROXY_URL"
)

// Require looks up every name and returns a *RequiredEnvError listing the
// ones that are missing or empty.
func Require(ctx context.Context, p Provider, names ...string) (map[string]string, error) {
	values := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		v, ok := p.Get(ctx, name)
		if !ok || v == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = v
	}
	if len(missing) > 0 {
		return nil, &RequiredEnvError{Missing: missing}
	}
	return values, nil
}
