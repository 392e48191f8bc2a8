package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *StatusError
		want string
	}{
		{err: &StatusError{StatusCode: 500}, want: "generation service returned HTTP 500"},
		{err: &StatusError{StatusCode: 401, Detail: "invalid x-api-key"}, want: "generation service returned HTTP 401: invalid x-api-key"},
		{err: &StatusError{StatusCode: 503, Hint: "Try again later"}, want: "generation service returned HTTP 503. Try again later"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("sending: %w", &StatusError{StatusCode: 429})
	assert.Equal(t, 429, StatusCode(wrapped))
	assert.Zero(t, StatusCode(errors.New("dial tcp: refused")))
	assert.Zero(t, StatusCode(nil))
}
