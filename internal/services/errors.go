package services

import "errors"

// ErrorKind classifies failures that are the caller's fault.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuth
	KindConflict
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is returned for every client-facing failure. Anything else a service returns
// is an internal error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func authError(msg string) error       { return &Error{Kind: KindAuth, Message: msg} }
func conflictError(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }
func notFoundError(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a service Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
