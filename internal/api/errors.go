package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method   string
	Endpoint string
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// NetworkError wraps failures that happened before a response was read.
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an HTTP 404 from the record store.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusNotFound
}

// IsNetworkFailure reports whether err came from the transport (unreachable or non-2xx).
func IsNetworkFailure(err error) bool {
	var he *HTTPError
	var ne *NetworkError
	return errors.As(err, &he) || errors.As(err, &ne)
}
