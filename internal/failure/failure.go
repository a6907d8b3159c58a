package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	InvalidInput       Kind = "invalid_input"
	MissingCredential  Kind = "missing_credential"
	Busy               Kind = "busy"
	CompletionFailure  Kind = "completion_failure"
	SynthesisFailure   Kind = "synthesis_failure"
	ExportFailure      Kind = "export_failure"
	SchemaFetchFailure Kind = "schema_fetch_failure"
	Unknown            Kind = "unknown"
)

// HTTPStatus maps the kind onto the status the HTTP layer answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case MissingCredential:
		return http.StatusUnauthorized
	case Busy:
		return http.StatusConflict
	case CompletionFailure, SynthesisFailure, ExportFailure, SchemaFetchFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "lookup"
	Message string
	Hint    string // remediation hint, may be empty
	Status  int    // upstream HTTP status, 0 if none
	Err     error
}

// New creates a classified error.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies err.
func Wrap(kind Kind, op string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// WithHint attaches a remediation hint.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithStatus records the upstream HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage renders the message together with its hint.
func (e *Error) UserMessage() string {
	if e.Hint == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Error(), e.Hint)
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage renders any error for display; classified errors include their hint.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.UserMessage()
	}
	return err.Error()
}
