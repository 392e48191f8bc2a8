package submit

import (
	"encoding/json"
	"errors"

	"github.com/slidecraft/slidecraft/pkg/transport"
	"github.com/slidecraft/slidecraft/pkg/validate"
)

// Result is the outcome of one submission: either *Success or *Failure.
type Result interface {
	isResult()
	// OK reports whether the submission succeeded.
	OK() bool
}

type Success struct {
	Message      string `json:"message"`
	ThemeName    string `json:"themeName"`
	TemplateName string `json:"templateName,omitempty"`
	Filepath     string `json:"filepath,omitempty"`
}

func (*Success) isResult() {}
func (*Success) OK() bool  { return true }

func (s *Success) MarshalJSON() ([]byte, error) {
	type alias Success
	return json.Marshal(struct {
		OK bool `json:"success"`
		alias
	}{OK: true, alias: alias(*s)})
}

type Failure struct {
	ErrorMessage string `json:"error"`
	// Err is the underlying cause, for callers that need to inspect it.
	Err error `json:"-"`
}

func (*Failure) isResult() {}
func (*Failure) OK() bool  { return false }

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) MarshalJSON() ([]byte, error) {
	type alias Failure
	return json.Marshal(struct {
		OK bool `json:"success"`
		alias
	}{OK: false, alias: alias(*f)})
}

// failureFrom turns any error from validation, composition or transport into
// a user-facing Failure.
func failureFrom(err error) *Failure {
	var msg string

	var validationErr *validate.ValidationError
	var statusErr *transport.StatusError
	switch {
	case errors.As(err, &validationErr):
		msg = validationErr.Error()
	case errors.As(err, &statusErr):
		msg = statusErr.Error()
	case errors.Is(err, transport.ErrMalformedResponse):
		msg = "The generation service returned an unexpected response. Please try again."
	default:
		msg = "Could not reach the generation service: " + err.Error()
	}

	return &Failure{ErrorMessage: msg, Err: err}
}
