package transactease

import "errors"

var (
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrMissingSignatureField = errors.New("missing signature field")
	ErrMissingField          = errors.New("signed field missing from form")
	ErrInvalidAccessKey      = errors.New("access key does not match merchant")
	ErrEmptySecret           = errors.New("transactease secret key is required")
	ErrInvalidConfig         = errors.New("invalid transactease config")
	ErrInvalidAmount         = errors.New("amount must be positive")
)
