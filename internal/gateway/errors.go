package gateway

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindServerValidation Kind = "SERVER_VALIDATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindNetwork          Kind = "NETWORK"
	KindServer           Kind = "SERVER"
)

// Error is the failure of a gateway call. Message holds the backend's
// {"message": ...} payload when one was sent.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s (%d)", e.Kind, e.Status)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind so errors.Is(err, ErrNotFound) works on any not-found error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Status == 0 && t.Message == "" && t.Err == nil
}

var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrServerValidation = &Error{Kind: KindServerValidation}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrNetwork          = &Error{Kind: KindNetwork}
	ErrServer           = &Error{Kind: KindServer}
)

// ErrMissingID is returned by updates called without an identifier. It never reaches the network.
var ErrMissingID = NewValidationError("id is required for update")

func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewServerValidationError(status int, msg string) error {
	return &Error{Kind: KindServerValidation, Status: status, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Status: 404, Message: msg}
}

func NewNetworkError(err error) error {
	return &Error{Kind: KindNetwork, Err: err}
}

func NewServerError(status int, msg string) error {
	return &Error{Kind: KindServer, Status: status, Message: msg}
}

// MessageOf returns the backend message carried by err, or "" when there is none
func MessageOf(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return ""
}

// KindOf returns the kind of a gateway error, or "" for foreign errors
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}
