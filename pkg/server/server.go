// Package server exposes registry browsing and per-session form editing and
// submission over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/slidecraft/slidecraft/pkg/api"
	"github.com/slidecraft/slidecraft/pkg/engine"
	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
)

type Server struct {
	e        *echo.Echo
	engine   *engine.Engine
	registry atomic.Pointer[registry.Registry]
	sessions *SessionStore
}

type Opt func(*options)

type options struct {
	sessionTTL time.Duration
}

func WithSessionTTL(ttl time.Duration) Opt {
	return func(o *options) {
		o.sessionTTL = ttl
	}
}

func New(eng *engine.Engine, opts ...Opt) *Server {
	o := options{sessionTTL: DefaultSessionTTL}
	for _, opt := range opts {
		opt(&o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())

	s := &Server{
		e:        e,
		engine:   eng,
		sessions: NewSessionStore(o.sessionTTL),
	}
	s.registry.Store(eng.Registry())

	group := e.Group("/api")

	// Health check endpoint
	group.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	group.GET("/themes", s.getThemes)
	group.GET("/templates", s.getTemplates)
	group.GET("/templates/:id", s.getTemplate)

	group.POST("/sessions", s.createSession)
	group.GET("/sessions/:id", s.getSession)
	group.DELETE("/sessions/:id", s.deleteSession)
	// Replace the form being edited
	group.PUT("/sessions/:id/form", s.putForm)
	// Preview the request a submit would send
	group.POST("/sessions/:id/compose", s.composeSession)
	group.POST("/sessions/:id/submit", s.submitSession)

	return s
}

// Handler exposes the routes, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

// SetRegistry swaps the registry used by sessions created from now on.
func (s *Server) SetRegistry(reg *registry.Registry) {
	s.registry.Store(reg)
}

// Serve blocks until ln fails or ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := http.Server{
		Handler:           s.e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		slog.Error("Failed to start server", "error", err)
		return err
	}

	return nil
}

func (s *Server) getThemes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.Load().Themes())
}

func (s *Server) getTemplates(c echo.Context) error {
	categories := s.registry.Load().Categories()

	out := make([]api.Category, len(categories))
	for i, cat := range categories {
		out[i] = api.Category{Name: cat.Name, Templates: cat.Templates}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getTemplate(c echo.Context) error {
	tmpl, err := s.registry.Load().Template(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (s *Server) createSession(c echo.Context) error {
	var req api.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}

	reg := s.registry.Load()

	f := req.Form
	if f == nil {
		f = engine.NewForm(s.engine.Config(), reg)
	} else if err := f.CheckReferences(reg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := s.sessions.Create(reg, submit.New(reg, s.engine.Transport()), f)
	slog.Debug("Session created", "session_id", sess.ID)

	return c.JSON(http.StatusCreated, sess.Response())
}

func (s *Server) session(c echo.Context) (*Session, error) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return sess, nil
}

func (s *Server) getSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Response())
}

func (s *Server) deleteSession(c echo.Context) error {
	if !s.sessions.Delete(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) putForm(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var f form.State
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	if err := sess.ReplaceForm(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, sess.Response())
}

func (s *Server) composeSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	req, err := prompt.Compose(sess.Form(), sess.registry)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, req)
}

func (s *Server) submitSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	if _, err := sess.controller.Submit(c.Request().Context(), sess.Form()); err != nil {
		if errors.Is(err, submit.ErrInFlight) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusAccepted, api.SubmitResponse{
		SessionID: sess.ID,
		Status:    sess.controller.Status(),
	})
}
