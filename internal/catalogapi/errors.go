package catalogapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable wraps transport failures (DNS, refused, timeout).
var ErrUnreachable = errors.New("catalog api unreachable")

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalogapi: %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("catalogapi: %s %s: %d", e.Method, e.Path, e.Status)
}

// errorBody covers both {"message": ".."} and {"error": ".."} bodies.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// StatusOf returns the remote HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// MessageOf returns the remote message carried by err, or "".
func MessageOf(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }
