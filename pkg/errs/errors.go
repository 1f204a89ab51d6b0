// Package errs classifies errors into the kinds the HTTP and realtime
// layers map to responses, without leaking backend-specific details up
// through the usecase layer.
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the seven error kinds the API surface understands.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Generic sentinel errors repositories and usecases compare against with
// errors.Is. Kept narrow; field-carrying variants use the typed errors below.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnavailable   = errors.New("dependency unavailable")
)

// Error is a kind-tagged error with an optional field and static message,
// suitable for direct HTTP status mapping.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	cause   error
}

func (e Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

func NewField(kind Kind, field, message string) error {
	return Error{Kind: kind, Field: field, Message: message}
}

func NewNotFoundError(field, message string) error {
	return NewField(KindNotFound, field, message)
}

func NewConflictError(field, message string) error {
	return NewField(KindConflict, field, message)
}

func NewForbiddenError(message string) error {
	return New(KindForbidden, message)
}

func NewUnauthorizedError(message string) error {
	return New(KindUnauthorized, message)
}

// KindOf extracts the Kind carried by err, defaulting to KindInternal for
// anything that isn't an Error, a ValidationError, or one of the legacy
// sentinels.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind
	}

	var v ValidationError
	if errors.As(err, &v) {
		return KindBadRequest
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// Wrap annotates err with the operation it occurred in, the way the teacher's
// op-const convention does, without losing the underlying kind for KindOf.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ReplaceOn replaces target error with replacement if err matches target.
// Used at usecase boundaries to turn a generic repository sentinel into a
// field-carrying, user-facing error.
func ReplaceOn(err error, target error, replacement error) error {
	if errors.Is(err, target) {
		return replacement
	}
	return err
}
