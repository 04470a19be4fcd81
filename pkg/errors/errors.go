package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine-readable error category. Handlers map each kind
// to an HTTP status and clients branch on it for actionable messages.
type Kind string

const (
	KindUnsupportedFormat      Kind = "unsupported_format"
	KindEmptyDocument          Kind = "empty_document"
	KindExtractionFailed       Kind = "extraction_failed"
	KindMalformedModelResponse Kind = "malformed_model_response"
	KindUpstreamUnavailable    Kind = "upstream_unavailable"
	KindUnauthenticated        Kind = "unauthenticated"
	KindPersistenceFailure     Kind = "persistence_failure"
	KindRenderFailure          Kind = "render_failure"
	KindExportFailure          Kind = "export_failure"
	KindNotFound               Kind = "not_found"
	KindBadInput               Kind = "bad_input"
)

// Upstream failure causes, carried in Detail so callers can present an
// actionable message without parsing provider error strings.
const (
	CauseMissingCredential  = "missing_credential"
	CauseRateLimited        = "rate_limited"
	CauseNetworkUnreachable = "network_unreachable"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Detail  string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindBadInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case KindEmptyDocument, KindExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the kind from any error in the chain, or "" when the error
// carries no kind.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// AsAppError returns the AppError in the chain, wrapping unknown errors as
// an internal persistence-class failure so no error escapes without a kind.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindPersistenceFailure, "internal error", err)
}
