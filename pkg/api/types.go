// Package api holds the request and response bodies of the HTTP API.
package api

import (
	"time"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
)

// Category is one entry of the ordered template listing.
type Category struct {
	Name      string              `json:"category"`
	Templates []registry.Template `json:"templates"`
}

// CreateSessionRequest optionally seeds the form of a new session.
type CreateSessionRequest struct {
	Form *form.State `json:"form,omitempty"`
}

// SessionResponse is the full state of one editing session.
type SessionResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Form      *form.State   `json:"form"`
	Status    submit.Status `json:"status"`
	Result    submit.Result `json:"result"`
	CanSubmit bool          `json:"canSubmit"`
	// Reason explains why CanSubmit is false.
	Reason string `json:"reason,omitempty"`
}

// SubmitResponse acknowledges an accepted submission. Poll the session for
// the Result.
type SubmitResponse struct {
	SessionID string        `json:"sessionId"`
	Status    submit.Status `json:"status"`
}
