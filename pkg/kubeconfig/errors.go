package kubeconfig

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind categorizes resolution failures. Kinds are diagnostic labels,
// not a stable API surface: callers match them with IsKind, and the message
// carries the human-readable detail.
type ErrorKind string

const (
	// ConfigMissing means a required environment variable, mounted file or
	// kubeconfig file is absent.
	ConfigMissing ErrorKind = "config missing"

	// SelectionMissing means a cluster, user or context could not be
	// determined from the selectors or the current-context.
	SelectionMissing ErrorKind = "selection missing"

	// NotFound means a selected name has no record in the kubeconfig.
	NotFound ErrorKind = "not found"

	// DecodeError means a URL, certificate, key or credential document is
	// malformed.
	DecodeError ErrorKind = "decode error"

	// IdentityUnavailable means no usable client certificate is configured
	// where one was asked for.
	IdentityUnavailable ErrorKind = "identity unavailable"

	// ExecProtocolError means the credential plugin failed, produced no
	// output, or its output omitted the status field.
	ExecProtocolError ErrorKind = "exec protocol error"
)

// Error is the single error type produced by this package. Every fallible
// operation returns one, tagged with a kind plus a descriptive message;
// failures are terminal for the call that produced them and are never
// retried internally.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Cause exposes the underlying cause to github.com/pkg/errors.
func (e *Error) Cause() error { return e.cause }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func newErrorCause(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// IsKind reports whether err (or anything it wraps) is a resolution Error of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
