package core

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies proxy failures for HTTP status mapping.
type ErrorKind int

// Proxy error kinds.
const (
	ErrMissingCredential ErrorKind = iota
	ErrInvalidCredential
	ErrUpstreamUnreachable
	ErrUpstreamClient
	ErrUpstreamServer
	ErrMalformedBackendResponse
)

// ProxyError is a structured error carrying the failure class, the HTTP
// status to mirror to the client, and a caller-visible message.
type ProxyError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *ProxyError) Error() string {
	return e.Message
}

// Is supports errors.Is matching on the error kind.
func (e *ProxyError) Is(target error) bool {
	t, ok := target.(*ProxyError)
	return ok && t.Kind == e.Kind
}

// HTTPStatus returns the status to report, defaulting by kind when the
// error was built without an explicit upstream status.
func (e *ProxyError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case ErrMissingCredential:
		return http.StatusUnauthorized
	case ErrInvalidCredential:
		return http.StatusForbidden
	case ErrUpstreamUnreachable:
		return http.StatusBadGateway
	case ErrUpstreamClient:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// ErrorType returns the OpenAI-style error type string for the kind.
func (e *ProxyError) ErrorType() string {
	switch e.Kind {
	case ErrMissingCredential, ErrInvalidCredential:
		return ErrorTypeAuthentication
	case ErrUpstreamClient:
		return ErrorTypeInvalidRequest
	case ErrUpstreamUnreachable, ErrUpstreamServer, ErrMalformedBackendResponse:
		return ErrorTypeUpstream
	default:
		return ErrorTypeAPI
	}
}

// NewProxyError builds a ProxyError with a formatted message.
func NewProxyError(kind ErrorKind, status int, format string, args ...any) *ProxyError {
	return &ProxyError{
		Kind:    kind,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}
