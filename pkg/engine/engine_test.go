package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecraft/slidecraft/pkg/environment"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
	"github.com/slidecraft/slidecraft/pkg/transport"
	"github.com/slidecraft/slidecraft/pkg/transport/proxy"
	"github.com/slidecraft/slidecraft/pkg/userconfig"
)

type mapEnv map[string]string

func (m mapEnv) Get(_ context.Context, name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

type echoTransport struct{}

func (echoTransport) Name() string { return "echo" }

func (echoTransport) Send(_ context.Context, req *prompt.Request) (*transport.Response, error) {
	return &transport.Response{Message: req.ThemeID}, nil
}

func TestDirectTransportNeedsAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(t.Context(), userconfig.Default(), mapEnv{})

	var envErr *environment.RequiredEnvError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, []string{environment.AnthropicAPIKey}, envErr.Missing)
}

func TestDirectTransportFromEnv(t *testing.T) {
	t.Parallel()

	e, err := New(t.Context(), userconfig.Default(), mapEnv{environment.AnthropicAPIKey: "sk-ant-test"})
	require.NoError(t, err)
	assert.Equal(t, "direct", e.Transport().Name())
	assert.Len(t, e.Registry().Templates(), 13)
}

func TestProxyTransport(t *testing.T) {
	t.Parallel()

	cfg := userconfig.Default()
	cfg.Transport = userconfig.TransportProxy

	_, err := New(t.Context(), cfg, mapEnv{})
	require.Error(t, err, "no base URL anywhere")

	e, err := New(t.Context(), cfg, mapEnv{environment.ProxyBaseURL: "http://localhost:8501"})
	require.NoError(t, err)
	p, ok := e.Transport().(*proxy.Transport)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8501/api/generate", p.Endpoint())

	cfg.Proxy.BaseURL = "https://slides.example.com"
	e, err = New(t.Context(), cfg, mapEnv{environment.ProxyBaseURL: "http://ignored"})
	require.NoError(t, err)
	assert.Equal(t, "https://slides.example.com/api/generate", e.Transport().(*proxy.Transport).Endpoint())
}

func TestCustomTemplatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  - id: volunteer_orientation
    name: Volunteer Orientation
    fields: [ministry_area, start_date]
`), 0o600))

	cfg := userconfig.Default()
	cfg.TemplatesFile = path

	e, err := New(t.Context(), cfg, mapEnv{}, WithTransport(echoTransport{}))
	require.NoError(t, err)

	tmpl, err := e.Registry().Template("volunteer_orientation")
	require.NoError(t, err)
	assert.True(t, tmpl.IsCustom)
	assert.Equal(t, []string{"ministry_area", "start_date"}, tmpl.Fields)
}

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	cfg := userconfig.Default()
	cfg.DefaultTheme = "no_such_theme"
	_, err := New(t.Context(), cfg, mapEnv{}, WithTransport(echoTransport{}))
	require.Error(t, err)

	cfg.DefaultTheme = "tech_modern"
	e, err := New(t.Context(), cfg, mapEnv{}, WithTransport(echoTransport{}))
	require.NoError(t, err)
	assert.Equal(t, "tech_modern", e.NewForm().SelectedThemeID)
}

func TestLoadRegistryChecksDefaultTheme(t *testing.T) {
	t.Parallel()

	cfg := userconfig.Default()
	cfg.DefaultTheme = "no_such_theme"
	_, err := LoadRegistry(cfg)
	require.ErrorIs(t, err, registry.ErrNotFound)
	assert.Contains(t, err.Error(), "default_theme")

	cfg.DefaultTheme = "church_warmth"
	reg, err := LoadRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, "church_warmth", NewForm(cfg, reg).SelectedThemeID)
}

func TestNewFormKeepsDefaultForUnknownTheme(t *testing.T) {
	t.Parallel()

	cfg := userconfig.Default()
	cfg.DefaultTheme = "no_such_theme"

	s := NewForm(cfg, registry.Default())
	assert.Equal(t, registry.DefaultThemeID, s.SelectedThemeID)
}

func TestNewControllerSubmits(t *testing.T) {
	t.Parallel()

	e, err := New(t.Context(), nil, mapEnv{}, WithTransport(echoTransport{}))
	require.NoError(t, err)

	s := e.NewForm()
	s.Quick.Topic = "Onboarding"

	task, err := e.NewController().Submit(t.Context(), s)
	require.NoError(t, err)
	result, err := task.Wait(t.Context())
	require.NoError(t, err)

	success, ok := result.(*submit.Success)
	require.True(t, ok)
	assert.Equal(t, "software_professional", success.Message)
}
