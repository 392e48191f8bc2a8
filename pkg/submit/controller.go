// Package submit runs the submit/result lifecycle of a presentation request.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/transport"
	"github.com/slidecraft/slidecraft/pkg/validate"
)

// ErrInFlight is returned by Submit while another submission is running.
var ErrInFlight = errors.New("a submission is already in flight")

type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
	StatusSettled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in_flight"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusIdle, StatusInFlight, StatusSettled} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown submission status %q", text)
}

// Controller owns the submission status and latest Result of one session.
// At most one submission runs at a time.
type Controller struct {
	registry  *registry.Registry
	transport transport.Transport
	tracer    trace.Tracer
	handlers  []func(Result)

	gate *semaphore.Weighted

	mu     sync.Mutex
	status Status
	result Result
}

type Opt func(*Controller)

// WithResultHandler registers a function called once with every published
// Result, on the goroutine that settled the submission and before the Task
// is done.
func WithResultHandler(h func(Result)) Opt {
	return func(c *Controller) {
		c.handlers = append(c.handlers, h)
	}
}

func WithTracer(tracer trace.Tracer) Opt {
	return func(c *Controller) {
		c.tracer = tracer
	}
}

func New(reg *registry.Registry, t transport.Transport, opts ...Opt) *Controller {
	c := &Controller{
		registry:  reg,
		transport: t,
		tracer:    otel.Tracer("github.com/slidecraft/slidecraft/pkg/submit"),
		gate:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Result returns the latest published Result, or nil.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Disabled reports whether the submit trigger should be disabled for s.
func (c *Controller) Disabled(s *form.State) bool {
	return c.Status() == StatusInFlight || !validate.CanSubmit(s, c.registry)
}

// Submit starts a submission of a snapshot of s. It returns ErrInFlight,
// and changes nothing, when a submission is already running.
//
// The transport call is not tied to ctx cancellation: once issued it runs to
// completion or failure. ctx only carries values such as the trace span.
func (c *Controller) Submit(ctx context.Context, s *form.State) (*Task, error) {
	if !c.gate.TryAcquire(1) {
		slog.Debug("Submission rejected, another one is in flight")
		return nil, ErrInFlight
	}

	c.mu.Lock()
	c.status = StatusInFlight
	c.result = nil
	c.mu.Unlock()

	var snapshot *form.State
	if s != nil {
		snapshot = s.Clone()
	}

	ctx, span := c.tracer.Start(context.WithoutCancel(ctx), "slidecraft.submit")
	task := newTask()

	req, err := prompt.Compose(snapshot, c.registry)
	if err != nil {
		slog.Debug("Submission refused", "error", err)
		c.settle(span, task, failureFrom(err))
		return task, nil
	}

	span.SetAttributes(
		attribute.String("slidecraft.mode", string(req.Mode)),
		attribute.String("slidecraft.request_id", req.ID),
		attribute.String("slidecraft.theme", req.ThemeID),
		attribute.String("slidecraft.template", req.TemplateID),
		attribute.String("slidecraft.transport", c.transport.Name()),
	)

	go func() {
		slog.Info("Submitting presentation request", "request_id", req.ID, "mode", req.Mode, "transport", c.transport.Name())

		resp, err := c.transport.Send(ctx, req)
		if err != nil {
			slog.Warn("Presentation request failed", "request_id", req.ID, "error", err)
			c.settle(span, task, failureFrom(err))
			return
		}

		slog.Info("Presentation request succeeded", "request_id", req.ID)
		c.settle(span, task, c.success(req, resp))
	}()

	return task, nil
}

func (c *Controller) success(req *prompt.Request, resp *transport.Response) *Success {
	out := &Success{
		Message:  resp.Message,
		Filepath: resp.Filepath,
	}
	if theme, err := c.registry.Theme(req.ThemeID); err == nil {
		out.ThemeName = theme.Name
	}
	if req.TemplateID != "" {
		if tmpl, err := c.registry.Template(req.TemplateID); err == nil {
			out.TemplateName = tmpl.Name
		}
	}
	return out
}

func (c *Controller) settle(span trace.Span, task *Task, result Result) {
	if f, ok := result.(*Failure); ok {
		span.SetStatus(codes.Error, f.ErrorMessage)
		if code := transport.StatusCode(f.Err); code != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", code))
		}
	}
	span.End()

	c.mu.Lock()
	c.status = StatusSettled
	c.result = result
	c.mu.Unlock()

	c.gate.Release(1)

	// Handlers finish before waiters are released.
	for _, h := range c.handlers {
		h(result)
	}
	task.complete(result)
}

// Task is a running submission.
type Task struct {
	done   chan struct{}
	result Result
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) complete(r Result) {
	t.result = r
	close(t.done)
}

// Done is closed once the Result is published.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the Result is published or ctx is done. Abandoning the
// wait does not stop the submission.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
