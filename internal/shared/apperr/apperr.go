package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	Conflict     Kind = "conflict"
	Unavailable  Kind = "unavailable" // the catalog API failed or is unreachable
	Internal     Kind = "internal"
)

var statusByKind = map[Kind]int{
	Invalid:      http.StatusBadRequest,
	Unauthorized: http.StatusUnauthorized,
	Forbidden:    http.StatusForbidden,
	NotFound:     http.StatusNotFound,
	Conflict:     http.StatusConflict,
	Unavailable:  http.StatusBadGateway,
	Internal:     http.StatusInternalServerError,
}

// Status is the HTTP status a kind renders as. Unknown kinds are 500.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

const genericMsg = "An unexpected error occurred. Please try again."

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.PublicMsg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	default:
		return string(e.Kind)
	}
}

func (e *AppError) Unwrap() error { return e.Err }

// New builds an error of kind with a short, user-safe message.
func New(kind Kind, publicMsg string) *AppError {
	return &AppError{Kind: kind, PublicMsg: publicMsg}
}

func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}

func NotFoundErr(publicMsg string) *AppError     { return New(NotFound, publicMsg) }
func UnauthorizedErr(publicMsg string) *AppError { return New(Unauthorized, publicMsg) }
func ForbiddenErr(publicMsg string) *AppError    { return New(Forbidden, publicMsg) }
func ConflictErr(publicMsg string) *AppError     { return New(Conflict, publicMsg) }

func UnavailableErr(publicMsg string, err error) *AppError {
	return &AppError{Kind: Unavailable, PublicMsg: publicMsg, Err: err}
}

// Wrap hides an internal error behind the generic public message.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: Internal, PublicMsg: genericMsg, Err: err}
}

// WithMessage swaps the public message, keeping kind, fields and cause of
// an existing AppError. Plain errors become Internal.
func WithMessage(err error, publicMsg string) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return &AppError{Kind: ae.Kind, PublicMsg: publicMsg, Fields: ae.Fields, Err: ae.Err}
	}
	return &AppError{Kind: Internal, PublicMsg: publicMsg, Err: err}
}

// FromUpstream maps a failed catalog call. Remote 401 and 404 keep their
// meaning; any other status, or none at all, is Unavailable.
func FromUpstream(status int, publicMsg string, err error) *AppError {
	kind := Unavailable
	switch status {
	case http.StatusUnauthorized:
		kind = Unauthorized
	case http.StatusNotFound:
		kind = NotFound
	}
	return &AppError{Kind: kind, PublicMsg: publicMsg, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		return ae.Kind.Status()
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return genericMsg
}
