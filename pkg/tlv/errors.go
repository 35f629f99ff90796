package tlv

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed     = errors.New("malformed TLV")
	ErrValueTooLong  = errors.New("TLV value exceeds 99 bytes")
	ErrInvalidTagLen = errors.New("TLV tag must be 2 digits")
)

// MalformedError locates a structural failure inside a TLV string.
type MalformedError struct {
	Tag    string
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("malformed TLV at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("malformed TLV tag %q at offset %d: %s", e.Tag, e.Offset, e.Reason)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}
