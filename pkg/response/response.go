package response

import (
	"errors"
)

// Error carries the HTTP status a domain error maps to and an optional
// machine readable code.
type Error struct {
	Code   int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

func NewErrorWithReason(code int, reason string, err string) error {
	return &Error{Code: code, Reason: reason, Err: errors.New(err)}
}
