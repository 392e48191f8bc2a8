package root

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecraft/slidecraft/pkg/environment"
	"github.com/slidecraft/slidecraft/pkg/userconfig"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := Execute(t.Context(), nil, &stdout, &stderr, args...)
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "slidecraft version dev")
	assert.Contains(t, stdout, "User-Agent: SlideCraft/dev")
}

func TestThemes(t *testing.T) {
	cfg := writeConfig(t, "default_theme: tech_modern\n")

	stdout, _, err := run(t, "--config", cfg, "themes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* tech_modern")

	stdout, _, err = run(t, "--config", cfg, "themes", "--json")
	require.NoError(t, err)
	var themes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &themes))
	assert.Len(t, themes, 11)
	assert.Equal(t, "software_professional", themes[0]["id"])
}

func TestTemplates(t *testing.T) {
	cfg := writeConfig(t, "")

	stdout, _, err := run(t, "--config", cfg, "templates")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CHURCH")
	assert.Contains(t, stdout, "quarterly_review")

	stdout, _, err = run(t, "--config", cfg, "templates", "sermon")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--field scripture_reference=...")

	_, stderr, err := run(t, "--config", cfg, "templates", "nope")
	require.Error(t, err)
	assert.Contains(t, stderr, "nope")
}

func TestComposeRejectsUnknownDefaultTheme(t *testing.T) {
	cfg := writeConfig(t, "default_theme: no_such_theme\n")

	stdout, _, err := run(t, "--config", cfg, "compose", "--topic", "Q4 Results", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_theme")
	assert.NotContains(t, stdout, "no_such_theme")
}

func TestComposeUsesDefaultTheme(t *testing.T) {
	cfg := writeConfig(t, "default_theme: church_warmth\n")

	stdout, _, err := run(t, "--config", cfg, "compose", "--topic", "Q4 Results", "--json")
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &req))
	assert.Equal(t, "church_warmth", req["themeId"])
}

func TestServeHelpListsAddressForms(t *testing.T) {
	stdout, _, err := run(t, "serve", "--help")
	require.NoError(t, err)
	for _, form := range []string{"host:port", "unix://path", "fd://N", "npipe://name"} {
		assert.Contains(t, stdout, form)
	}
}

func TestComposeQuickCreate(t *testing.T) {
	cfg := writeConfig(t, "")

	stdout, _, err := run(t, "--config", cfg, "compose", "--topic", "Q4 Results", "--slides", "8", "--company", "Acme")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Create a professional PowerPoint presentation about "Q4 Results".`)
	assert.Contains(t, stdout, "software_professional")
	assert.Contains(t, stdout, "- 5 content slides with relevant bullet points")
	assert.Contains(t, stdout, "Acme")
}

func TestComposeContextFile(t *testing.T) {
	cfg := writeConfig(t, "")
	ctxFile := filepath.Join(t.TempDir(), "agenda.txt")
	require.NoError(t, os.WriteFile(ctxFile, []byte("1. Welcome\n2. Numbers\n"), 0o600))

	stdout, _, err := run(t, "--config", cfg, "compose", "--topic", "Board", "--context-file", ctxFile, "--type", "business")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2. Numbers")
}

func TestComposeTemplateJSON(t *testing.T) {
	cfg := writeConfig(t, "")

	stdout, _, err := run(t, "--config", cfg, "compose", "--template", "sermon", "--field", "sermon_title=Hope", "--theme", "church_warmth", "--json")
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &req))
	assert.Equal(t, "template", req["mode"])
	assert.Equal(t, "sermon", req["templateId"])
	assert.Equal(t, "church_warmth", req["themeId"])
	assert.Contains(t, req["prompt"], "scripture_reference: \n")
	assert.Contains(t, req["prompt"], "sermon_title: Hope\n")
}

func TestComposeErrors(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no topic", args: []string{"compose"}},
		{name: "unknown theme", args: []string{"compose", "--topic", "x", "--theme", "neon"}},
		{name: "unknown template", args: []string{"compose", "--template", "ghost"}},
		{name: "undeclared field", args: []string{"compose", "--template", "sermon", "--field", "quarter=Q4"}},
		{name: "field without template", args: []string{"compose", "--topic", "x", "--field", "a=b"}},
		{name: "malformed field", args: []string{"compose", "--template", "sermon", "--field", "sermon_title"}},
		{name: "unknown type", args: []string{"compose", "--topic", "x", "--type", "comedy"}},
		{name: "template and topic", args: []string{"compose", "--template", "sermon", "--topic", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
		})
	}
}

func TestGenerateThroughProxy(t *testing.T) {
	t.Setenv(environment.AnthropicAPIKey, "")

	var got map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"Deck created","filepath":"/out/q4.pptx"}`))
	}))
	t.Cleanup(backend.Close)

	cfg := writeConfig(t, "transport: proxy\nproxy:\n  base_url: "+backend.URL+"\n")

	stdout, _, err := run(t, "--config", cfg, "generate", "--topic", "Q4 Results")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generating with the proxy transport")
	assert.Contains(t, stdout, "Presentation generated")
	assert.Contains(t, stdout, "Software Professional")
	assert.Contains(t, stdout, "/out/q4.pptx")
	assert.Equal(t, "Q4 Results", got["formData"].(map[string]any)["topic"])
}

func TestGenerateFailureExitsNonZero(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)

	cfg := writeConfig(t, "transport: proxy\nproxy:\n  base_url: "+backend.URL+"\n")

	stdout, stderr, err := run(t, "--config", cfg, "generate", "--topic", "Q4 Results")
	require.Error(t, err)
	assert.Contains(t, stdout, "500")
	assert.Empty(t, stderr, "failure already reported on stdout")
}

func TestGenerateDirectNeedsAPIKey(t *testing.T) {
	t.Setenv(environment.AnthropicAPIKey, "")
	cfg := writeConfig(t, "env_files: []\n")

	_, stderr, err := run(t, "--config", cfg, "generate", "--topic", "Q4 Results")

	var envErr *environment.RequiredEnvError
	require.ErrorAs(t, err, &envErr)
	assert.Contains(t, stderr, " - ANTHROPIC_API_KEY")
}

func TestGenerateReadsEnvFile(t *testing.T) {
	t.Setenv(environment.AnthropicAPIKey, "")

	var auth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514","content":[{"type":"text","text":"Here is your deck outline"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	t.Cleanup(api.Close)

	envFile := filepath.Join(t.TempDir(), "slidecraft.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ANTHROPIC_API_KEY=sk-from-file\n"), 0o600))
	cfg := writeConfig(t, "direct:\n  base_url: "+api.URL+"\nenv_files: []\n")

	stdout, _, err := run(t, "--config", cfg, "--env-file", envFile, "generate", "--topic", "Q4 Results")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", auth)
	assert.Contains(t, stdout, "Here is your deck outline")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	stdout, _, err := run(t, "--config", path, "config", "init", "--transport", "proxy", "--proxy-url", "http://localhost:8501")
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	cfg, err := userconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, userconfig.TransportProxy, cfg.Transport)
	assert.Equal(t, "http://localhost:8501", cfg.Proxy.BaseURL)

	_, _, err = run(t, "--config", path, "config", "init")
	require.Error(t, err)

	_, _, err = run(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	stdout, _, err = run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "transport: direct")

	stdout, _, err = run(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", stdout)

	_, _, err = run(t, "--config", path, "config", "init", "--force", "--transport", "pigeon")
	require.Error(t, err)
}

func TestDebugLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	cfg := writeConfig(t, "")

	_, _, err := run(t, "--debug", "--log-file", logPath, "--config", cfg, "themes")
	require.NoError(t, err)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Loaded config")
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := run(t, "bogus")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown command")
}
