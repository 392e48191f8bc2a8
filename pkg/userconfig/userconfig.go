// Package userconfig loads and saves the user-level slidecraft configuration
// stored in ~/.config/slidecraft/config.yaml.
package userconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/slidecraft/slidecraft/pkg/paths"
	"github.com/slidecraft/slidecraft/pkg/transport/direct"
	"github.com/slidecraft/slidecraft/pkg/transport/proxy"
)

// CurrentVersion is the current version of the config format
const CurrentVersion = "v1"

const (
	TransportDirect = "direct"
	TransportProxy  = "proxy"
)

const DefaultTimeout = 2 * time.Minute

// Direct configures calls straight to the Anthropic Messages API.
type Direct struct {
	Model     string `yaml:"model,omitempty"`
	MaxTokens int64  `yaml:"max_tokens,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// Proxy configures the presentation backend.
type Proxy struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

type Config struct {
	Version   string `yaml:"version,omitempty"`
	Transport string `yaml:"transport,omitempty"`
	Direct    Direct `yaml:"direct,omitempty"`
	Proxy     Proxy  `yaml:"proxy,omitempty"`
	// Timeout bounds one generation request, e.g. "90s" or "2m".
	Timeout string `yaml:"timeout,omitempty"`
	// TemplatesFile is an optional YAML catalog of custom templates.
	TemplatesFile string `yaml:"templates_file,omitempty"`
	// DefaultTheme preselects a theme on new forms.
	DefaultTheme string `yaml:"default_theme,omitempty"`
	// EnvFiles are dotenv files consulted after the process environment.
	EnvFiles []string `yaml:"env_files,omitempty"`
}

// Path returns the path to the config file
func Path() string {
	return paths.ConfigFile()
}

// Default is the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		Transport: TransportDirect,
		Direct: Direct{
			Model:     direct.DefaultModel,
			MaxTokens: direct.DefaultMaxTokens,
		},
		Proxy: Proxy{
			Endpoint: proxy.DefaultEndpoint,
		},
		Timeout:  DefaultTimeout.String(),
		EnvFiles: []string{".env"},
	}
}

// Load reads path, or Path() when empty. A missing file yields Default().
// Values absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No config file, using defaults", "path", path)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	slog.Debug("Loaded config", "path", path, "transport", config.Transport)
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportDirect, TransportProxy:
	case "":
		c.Transport = TransportDirect
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportDirect, TransportProxy, c.Transport)
	}

	if c.Direct.MaxTokens < 0 {
		return fmt.Errorf("direct.max_tokens must be positive, got %d", c.Direct.MaxTokens)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	// The proxy base URL may also come from the environment.
	if c.Transport == TransportProxy && c.Proxy.BaseURL != "" {
		if _, err := proxy.ResolveEndpoint(c.Proxy.BaseURL, c.Proxy.Endpoint); err != nil {
			return err
		}
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty means DefaultTimeout; "0" disables
// the client timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return d, nil
}

// Save writes the configuration to path, or Path() when empty, atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c.Version = CurrentVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
