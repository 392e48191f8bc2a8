// Package transport defines how a composed request reaches the external
// generation service.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/slidecraft/slidecraft/pkg/prompt"
)

// ErrMalformedResponse is returned when the service answered with a body
// that does not have the expected shape.
var ErrMalformedResponse = errors.New("malformed response from generation service")

// Response is what the generation service sent back.
type Response struct {
	Message string
	// Filepath is set by backends that produce a file.
	Filepath string
}

// Transport sends one request and waits for the answer. Implementations do
// not retry.
type Transport interface {
	Name() string
	Send(ctx context.Context, req *prompt.Request) (*Response, error)
}

// StatusError reports a non-2xx answer.
type StatusError struct {
	StatusCode int
	// Detail is an optional excerpt of the error body.
	Detail string
	// Hint suggests what the user can do instead.
	Hint string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("generation service returned HTTP %d", e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if statusErr, ok := errors.AsType[*StatusError](err); ok {
		return statusErr.StatusCode
	}
	return 0
}
