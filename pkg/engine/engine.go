// Package engine assembles the registry, transport and submission
// controllers described by a user configuration.
package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"

	"github.com/slidecraft/slidecraft/pkg/environment"
	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
	"github.com/slidecraft/slidecraft/pkg/transport"
	"github.com/slidecraft/slidecraft/pkg/transport/direct"
	"github.com/slidecraft/slidecraft/pkg/transport/proxy"
	"github.com/slidecraft/slidecraft/pkg/userconfig"
)

type Engine struct {
	config    *userconfig.Config
	registry  *registry.Registry
	transport transport.Transport
}

type Opt func(*options)

type options struct {
	transport transport.Transport
}

// WithTransport skips transport construction from the config. Tests use it
// to plug in fakes.
func WithTransport(t transport.Transport) Opt {
	return func(o *options) {
		o.transport = t
	}
}

func New(ctx context.Context, cfg *userconfig.Config, env environment.Provider, opts ...Opt) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if cfg == nil {
		cfg = userconfig.Default()
	}

	reg, err := LoadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	t := o.transport
	if t == nil {
		t, err = NewTransport(ctx, cfg, env)
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Engine ready", "transport", t.Name(), "templates", len(reg.Templates()))

	return &Engine{
		config:    cfg,
		registry:  reg,
		transport: t,
	}, nil
}

// LoadRegistry returns the built-in registry extended with cfg.TemplatesFile.
// cfg.DefaultTheme, when set, must name a theme of the result.
func LoadRegistry(cfg *userconfig.Config) (*registry.Registry, error) {
	reg := registry.Default()
	if cfg.TemplatesFile != "" {
		path, err := environment.ExpandTilde(cfg.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("templates_file: %w", err)
		}
		if reg, err = registry.Load(path); err != nil {
			return nil, err
		}
	}

	if cfg.DefaultTheme != "" {
		if _, err := reg.Theme(cfg.DefaultTheme); err != nil {
			return nil, fmt.Errorf("default_theme: %w", err)
		}
	}
	return reg, nil
}

// NewForm returns an empty quick-create form. The configured default theme
// is selected when reg has it, otherwise the built-in default stays.
func NewForm(cfg *userconfig.Config, reg *registry.Registry) *form.State {
	s := form.New()
	if cfg.DefaultTheme != "" {
		if err := s.SelectTheme(reg, cfg.DefaultTheme); err != nil {
			slog.Warn("Ignoring unknown default theme", "theme", cfg.DefaultTheme, "error", err)
		}
	}
	return s
}

// NewTransport builds the transport selected by cfg.Transport. Credentials
// and URLs missing from the config are looked up through env.
func NewTransport(ctx context.Context, cfg *userconfig.Config, env environment.Provider) (transport.Transport, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	switch cfg.Transport {
	case userconfig.TransportDirect, "":
		values, err := environment.Require(ctx, env, environment.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		baseURL, _ := env.Get(ctx, environment.AnthropicBaseURL)

		return direct.New(direct.Config{
			APIKey:    values[environment.AnthropicAPIKey],
			Model:     cfg.Direct.Model,
			MaxTokens: cfg.Direct.MaxTokens,
			BaseURL:   cmp.Or(cfg.Direct.BaseURL, baseURL),
			Timeout:   timeout,
		})

	case userconfig.TransportProxy:
		baseURL := cfg.Proxy.BaseURL
		if baseURL == "" {
			baseURL, _ = env.Get(ctx, environment.ProxyBaseURL)
		}

		return proxy.New(proxy.Config{
			BaseURL:  baseURL,
			Endpoint: cfg.Proxy.Endpoint,
			Timeout:  timeout,
		})

	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func (e *Engine) Config() *userconfig.Config {
	return e.config
}

func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

func (e *Engine) Transport() transport.Transport {
	return e.transport
}

// NewForm returns an empty quick-create form with the configured default
// theme selected.
func (e *Engine) NewForm() *form.State {
	return NewForm(e.config, e.registry)
}

// NewController returns a controller for one session.
func (e *Engine) NewController(opts ...submit.Opt) *submit.Controller {
	return submit.New(e.registry, e.transport, opts...)
}
