package mmqr

import (
	"fmt"
	"github.com/shopspring/decimal"
	"time"
)

type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusVerified PaymentStatus = "verified"
	StatusFailed   PaymentStatus = "failed"
	StatusExpired  PaymentStatus = "expired"
)

// PaymentSummary is the part of a decoded code echoed back to callers.
type PaymentSummary struct {
	MerchantName   string              `json:"merchant_name"`
	MerchantCity   string              `json:"merchant_city"`
	MerchantID     string              `json:"merchant_id"`
	Amount         decimal.NullDecimal `json:"amount"`
	Currency       string              `json:"currency"`
	CountryCode    string              `json:"country_code"`
	OrderReference string              `json:"order_reference,omitempty"`
}

type ValidationResult struct {
	Valid     bool            `json:"valid"`
	Status    PaymentStatus   `json:"status"`
	Errors    []string        `json:"errors"`
	Warnings  []string        `json:"warnings"`
	Data      *PaymentSummary `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type ValidatorOption func(*Validator)

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// WithStrictCRC turns a checksum mismatch from a warning into an error.
func WithStrictCRC() ValidatorOption {
	return func(v *Validator) {
		v.strictCRC = true
	}
}

// Validator applies the business rules for accepting an MMQR payment.
type Validator struct {
	currency  string
	country   string
	strictCRC bool
	now       func() time.Time
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		currency: CurrencyMMK,
		country:  CountryMM,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate decodes qr and checks it against expected. Rule violations are
// accumulated; only a decode failure stops early.
func (v *Validator) Validate(qr string, expected decimal.Decimal) ValidationResult {
	result := ValidationResult{
		Status:    StatusPending,
		Errors:    []string{},
		Warnings:  []string{},
		Timestamp: v.now().UTC(),
	}

	data, err := Decode(qr)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse MMQR: %v", err))
		result.Status = StatusFailed
		return result
	}

	result.Data = &PaymentSummary{
		MerchantName:   data.MerchantName,
		MerchantCity:   data.MerchantCity,
		MerchantID:     data.MerchantID,
		Amount:         data.Amount,
		Currency:       data.Currency,
		CountryCode:    data.CountryCode,
		OrderReference: data.OrderReference(),
	}

	if data.CountryCode != v.country {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid country code: must be %s (Myanmar)", v.country))
	}

	if data.Currency != v.currency {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid currency: expected %s (MMK)", v.currency))
	}

	if data.Amount.Valid {
		paid := data.Amount.Decimal
		switch {
		case paid.LessThan(expected):
			result.Errors = append(result.Errors,
				fmt.Sprintf("Insufficient amount: %s MMK (required: %s MMK)", paid.String(), expected.String()))
		case paid.GreaterThan(expected):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Overpayment detected: %s MMK (required: %s MMK)", paid.String(), expected.String()))
		}
	}

	// Checksum problems other than a missing CRC are warnings unless strict.
	crcIssue := func(msg string) {
		if v.strictCRC {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}
	want, ok := data.ExpectedCRC()
	switch {
	case data.CRC == "":
		result.Warnings = append(result.Warnings, "CRC checksum missing")
	case !ok:
		crcIssue("CRC tag must be the final record and carry 4 characters")
	case want != data.CRC:
		crcIssue(fmt.Sprintf("CRC checksum mismatch: got %s, expected %s", data.CRC, want))
	}

	result.Valid = len(result.Errors) == 0
	if result.Valid {
		result.Status = StatusVerified
	} else {
		result.Status = StatusFailed
	}

	return result
}
