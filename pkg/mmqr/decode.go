package mmqr

import (
	"EsimMyanmar/pkg/tlv"
	"fmt"
	"github.com/shopspring/decimal"
	"regexp"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Decode parses and maps a raw MMQR string. It either returns a fully
// populated Data or an error, never both.
func Decode(qr string) (*Data, error) {
	if len(qr) < minLength {
		return nil, fmt.Errorf("%w: %d characters", ErrTooShort, len(qr))
	}

	records, err := tlv.Decode(qr)
	if err != nil {
		return nil, err
	}

	fields := records.Map()

	if _, ok := fields[TagPayloadFormat]; !ok {
		return nil, &FieldError{Tag: TagPayloadFormat, Err: ErrMissingField}
	}

	var merchantID string
	if raw := fields[TagMerchantAccount]; raw != "" {
		sub, err := tlv.Decode(raw)
		if err != nil {
			return nil, &FieldError{Tag: TagMerchantAccount, Err: err}
		}
		merchantID = sub.Value(SubTagMerchantID)
	}

	additional := map[string]string{}
	if raw := fields[TagAdditionalData]; raw != "" {
		sub, err := tlv.Decode(raw)
		if err != nil {
			return nil, &FieldError{Tag: TagAdditionalData, Err: err}
		}
		additional = sub.Map()
	}

	amount, err := parseAmount(fields[TagAmount])
	if err != nil {
		return nil, &FieldError{Tag: TagAmount, Err: err}
	}

	return &Data{
		PayloadFormat:        fields[TagPayloadFormat],
		PointOfInitiation:    fields[TagPointOfInitiation],
		MerchantAccount:      fields[TagMerchantAccount],
		MerchantID:           merchantID,
		MerchantCategoryCode: fields[TagMerchantCategory],
		MerchantName:         fields[TagMerchantName],
		MerchantCity:         fields[TagMerchantCity],
		PostalCode:           fields[TagPostalCode],
		Currency:             fields[TagCurrency],
		Amount:               amount,
		CountryCode:          fields[TagCountryCode],
		additional:           additional,
		CRC:                  fields[TagCRC],
		Raw:                  qr,
		records:              records,
	}, nil
}

func parseAmount(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}

	if !amountPattern.MatchString(s) {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrAmountParse, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q: %v", ErrAmountParse, s, err)
	}

	return decimal.NewNullDecimal(d), nil
}
