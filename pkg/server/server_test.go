package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecraft/slidecraft/pkg/api"
	"github.com/slidecraft/slidecraft/pkg/engine"
	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
	"github.com/slidecraft/slidecraft/pkg/transport"
	"github.com/slidecraft/slidecraft/pkg/userconfig"
)

type gatedTransport struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (g *gatedTransport) Name() string { return "gated" }

func (g *gatedTransport) Send(_ context.Context, req *prompt.Request) (*transport.Response, error) {
	g.calls.Add(1)
	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return &transport.Response{Message: "generated " + req.ThemeID, Filepath: "/out/deck.pptx"}, nil
}

func newTestServer(t *testing.T, tr transport.Transport) *httptest.Server {
	t.Helper()

	eng, err := engine.New(t.Context(), userconfig.Default(), nil, engine.WithTransport(tr))
	require.NoError(t, err)

	srv := httptest.NewServer(New(eng).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body, out any) int {
	t.Helper()

	var rd io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// sessionView mirrors api.SessionResponse with a concrete result shape.
type sessionView struct {
	ID        string         `json:"id"`
	Form      form.State     `json:"form"`
	Status    string         `json:"status"`
	Result    map[string]any `json:"result"`
	CanSubmit bool           `json:"canSubmit"`
	Reason    string         `json:"reason"`
}

func TestRegistryEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &gatedTransport{})

	var ping map[string]string
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/api/ping", nil, &ping))
	assert.Equal(t, "ok", ping["status"])

	var themes []registry.Theme
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/api/themes", nil, &themes))
	require.Len(t, themes, 11)
	assert.Equal(t, registry.Default().Themes(), themes)

	var categories []api.Category
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/api/templates", nil, &categories))
	require.NotEmpty(t, categories)
	assert.Equal(t, "church", categories[0].Name)
	assert.Equal(t, "sermon", categories[0].Templates[0].ID)

	var tmpl registry.Template
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/api/templates/sermon", nil, &tmpl))
	assert.Equal(t, "sermon", tmpl.ID)
	assert.Contains(t, tmpl.Fields, "scripture_reference")

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, srv.URL+"/api/templates/nope", nil, nil))
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	tr := &gatedTransport{release: make(chan struct{})}
	srv := newTestServer(t, tr)

	var sess sessionView
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/sessions", nil, &sess))
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, form.ModeQuickCreate, sess.Form.Mode)
	assert.Equal(t, registry.DefaultThemeID, sess.Form.SelectedThemeID)
	assert.Equal(t, "idle", sess.Status)
	assert.False(t, sess.CanSubmit)
	assert.Contains(t, sess.Reason, "topic")

	base := srv.URL + "/api/sessions/" + sess.ID

	// Nothing to compose yet.
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(t, http.MethodPost, base+"/compose", nil, nil))

	f := form.New()
	f.Quick.Topic = "Q4 Results"
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPut, base+"/form", f, &sess))
	assert.True(t, sess.CanSubmit)

	var req map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, base+"/compose", nil, &req))
	assert.Contains(t, req["prompt"], "- 5 content slides with relevant bullet points")
	assert.Equal(t, int32(0), tr.calls.Load(), "compose never sends")

	var accepted api.SubmitResponse
	require.Equal(t, http.StatusAccepted, doJSON(t, http.MethodPost, base+"/submit", nil, &accepted))
	assert.Equal(t, submit.StatusInFlight, accepted.Status)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, base, nil, &sess))
	assert.Equal(t, "in_flight", sess.Status)
	assert.False(t, sess.CanSubmit)

	assert.Equal(t, http.StatusConflict, doJSON(t, http.MethodPost, base+"/submit", nil, nil))

	close(tr.release)
	require.Eventually(t, func() bool {
		sess = sessionView{}
		doJSON(t, http.MethodGet, base, nil, &sess)
		return sess.Status == "settled"
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, true, sess.Result["success"])
	assert.Equal(t, "Software Professional", sess.Result["themeName"])
	assert.Equal(t, "/out/deck.pptx", sess.Result["filepath"])
	assert.Equal(t, int32(1), tr.calls.Load())

	assert.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, base, nil, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, base, nil, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodDelete, base, nil, nil))
}

func TestSubmitFailureIsPublished(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &gatedTransport{err: &transport.StatusError{StatusCode: 500}})

	f := form.New()
	require.NoError(t, f.SelectTemplate(registry.Default(), "sermon"))

	var sess sessionView
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/sessions", api.CreateSessionRequest{Form: f}, &sess))
	base := srv.URL + "/api/sessions/" + sess.ID

	require.Equal(t, http.StatusAccepted, doJSON(t, http.MethodPost, base+"/submit", nil, nil))
	require.Eventually(t, func() bool {
		sess = sessionView{}
		doJSON(t, http.MethodGet, base, nil, &sess)
		return sess.Status == "settled"
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, false, sess.Result["success"])
	assert.Contains(t, sess.Result["error"], "500")
}

func TestInvalidForms(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &gatedTransport{})

	var sess sessionView
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/sessions", nil, &sess))
	base := srv.URL + "/api/sessions/" + sess.ID

	tests := []struct {
		name string
		form form.State
	}{
		{name: "unknown theme", form: form.State{Mode: form.ModeQuickCreate, SelectedThemeID: "neon"}},
		{name: "unknown template", form: form.State{Mode: form.ModeUseTemplate, SelectedThemeID: registry.DefaultThemeID, SelectedTemplateID: "ghost"}},
		{name: "undeclared field", form: form.State{
			Mode:                form.ModeUseTemplate,
			SelectedThemeID:     registry.DefaultThemeID,
			SelectedTemplateID:  "sermon",
			TemplateFieldValues: map[string]string{"quarter": "Q4"},
		}},
		{name: "unknown mode", form: form.State{Mode: "freestyle", SelectedThemeID: registry.DefaultThemeID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPut, base+"/form", tt.form, nil))
			assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, srv.URL+"/api/sessions", api.CreateSessionRequest{Form: &tt.form}, nil))
		})
	}

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodPut, srv.URL+"/api/sessions/missing/form", form.New(), nil))
}

func TestSetRegistryAffectsNewSessionsOnly(t *testing.T) {
	t.Parallel()

	eng, err := engine.New(t.Context(), userconfig.Default(), nil, engine.WithTransport(&gatedTransport{}))
	require.NoError(t, err)
	s := New(eng)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	var before sessionView
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/sessions", nil, &before))

	extra, err := registry.ParseCatalog([]byte("templates:\n  - id: retreat\n    fields: [location]\n"))
	require.NoError(t, err)
	reg, err := registry.WithCustomTemplates(extra)
	require.NoError(t, err)
	s.SetRegistry(reg)

	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/api/templates/retreat", nil, nil))

	f := form.New()
	f.Mode = form.ModeUseTemplate
	f.SelectedTemplateID = "retreat"
	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPut, srv.URL+"/api/sessions/"+before.ID+"/form", f, nil))

	var after sessionView
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/sessions", api.CreateSessionRequest{Form: f}, &after))
	assert.Equal(t, "retreat", after.Form.SelectedTemplateID)
}

func TestSessionStoreExpires(t *testing.T) {
	t.Parallel()

	st := NewSessionStore(50 * time.Millisecond)
	sess := st.Create(registry.Default(), submit.New(registry.Default(), &gatedTransport{}), form.New())
	assert.Equal(t, 1, st.Len())

	_, ok := st.Get(sess.ID)
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)
	_, ok = st.Get(sess.ID)
	assert.False(t, ok)
}

func TestServeOnUnixSocket(t *testing.T) {
	t.Parallel()

	eng, err := engine.New(t.Context(), userconfig.Default(), nil, engine.WithTransport(&gatedTransport{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	socketPath := filepath.Join(t.TempDir(), "slidecraft.sock")
	ln, err := Listen(ctx, "unix://"+socketPath)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- New(eng).Serve(ctx, ln) }()

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://_/api/ping", http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `"ok"`))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
