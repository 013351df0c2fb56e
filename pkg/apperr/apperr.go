// Package apperr defines the error taxonomy shared by all services.
// Handlers map kinds to HTTP status codes; the digest job treats Transient
// errors as per-user failures and keeps iterating.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindValidation marks malformed or out-of-enum input.
	KindValidation Kind = iota + 1
	// KindNotFound marks a missing subscription, group or member.
	KindNotFound
	// KindPermission marks a role-based rejection.
	KindPermission
	// KindInvariant marks an operation that would violate a structural rule
	// (remove owner, duplicate invite, group at capacity, email mismatch).
	KindInvariant
	// KindTransient marks a persistence or network collaborator failure.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindInvariant:
		return "invariant"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Error is a kinded error. Use IsKind (or errors.As) to classify wrapped
// chains.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Permission(format string, args ...any) *Error {
	return New(KindPermission, format, args...)
}

func Invariant(format string, args ...any) *Error {
	return New(KindInvariant, format, args...)
}

func Transient(err error, msg string) *Error {
	return Wrap(KindTransient, err, msg)
}

// IsKind reports whether any error in err's chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
