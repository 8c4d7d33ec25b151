// Package apperr is the error taxonomy shared by all handlers: each failure
// is classified once at the point of occurrence and mapped to an HTTP status
// at the response boundary.
package apperr

import "net/http"

type Kind int

const (
	InvalidInput Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	UpstreamFailure
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Status maps the taxonomy onto HTTP. Conflict rides on 400 like the
// original API's validation failures.
func (e *Error) Status() int {
	switch e.Kind {
	case InvalidInput, Conflict:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Upstream wraps a collaborator failure with a sanitized message. The
// underlying error is for the log only, never the response.
func Upstream(msg string) *Error {
	if msg == "" {
		msg = "internal server error"
	}
	return &Error{Kind: UpstreamFailure, Message: msg}
}
