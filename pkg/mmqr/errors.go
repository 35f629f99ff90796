package mmqr

import (
	"errors"
	"fmt"
)

var (
	ErrTooShort      = errors.New("invalid MMQR string: too short")
	ErrMissingField  = errors.New("required MMQR field missing")
	ErrAmountParse   = errors.New("invalid MMQR amount")
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// FieldError names the top-level tag whose value could not be decoded.
type FieldError struct {
	Tag string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("MMQR tag %s (%s): %v", e.Tag, tagName(e.Tag), e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
