package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindBureauAuth    Kind = "bureau_auth"
	KindBureau        Kind = "bureau"
	KindPersistence   Kind = "persistence"
	KindInternal      Kind = "internal"
)

// Error is a classified pipeline error. Message is safe to show to callers;
// Err holds the underlying cause and is never rendered to clients for
// configuration, persistence or internal kinds.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Fields  map[string]string
	// Status carries the upstream HTTP status for bureau errors.
	Status int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a classified error.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind sentinels for errors.Is checks.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrBureauAuth    = &Error{Kind: KindBureauAuth}
	ErrBureau        = &Error{Kind: KindBureau}
	ErrPersistence   = &Error{Kind: KindPersistence}
)

func Configuration(message string, err error) *Error {
	return New(KindConfiguration, message, err)
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Persistence(message string, err error) *Error {
	return New(KindPersistence, message, err)
}

// KindOf reports the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-facing reason for err. Unclassified and
// infrastructure errors collapse to a generic message.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Kind {
	case KindConfiguration, KindPersistence, KindInternal:
		return "internal error"
	default:
		return e.Message
	}
}
