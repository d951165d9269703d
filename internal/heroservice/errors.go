package heroservice

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRequestFailed is the only failure kind the gateway distinguishes.
// Transport errors, non-2xx responses and undecodable bodies all wrap it.
var ErrRequestFailed = errors.New("request failed")

var errNilRef = errors.New("no hero to delete")

// StatusError describes a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func requestFailed(method, url string, cause error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, url, cause)
}
