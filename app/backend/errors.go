package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	default:
		return "server"
	}
}

// APIError is returned for every non-2xx backend response and every transport failure.
type APIError struct {
	Status  int
	Kind    ErrorKind
	Message string
	// Fields holds per-field messages from a 422 response.
	Fields map[string][]string
	Err    error
}

func (e *APIError) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend %d (%s): %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("backend %d (%s)", e.Status, e.Kind)
}

func (e *APIError) Unwrap() error { return e.Err }

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// KindOf returns the kind of a backend error, or KindServer for foreign errors.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// IsAuthFailure reports whether err means the session is no longer accepted by the backend.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == KindUnauthorized || apiErr.Kind == KindForbidden
}

// ValidationErrors returns the 422 message and field errors carried by err.
func ValidationErrors(err error) (string, map[string][]string, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindValidation {
		return "", nil, false
	}
	return apiErr.Message, apiErr.Fields, true
}
