package mmqr

import (
	"EsimMyanmar/pkg/crc16"
	"EsimMyanmar/pkg/tlv"
	"fmt"
	"github.com/shopspring/decimal"
	"strings"
)

// Encoder builds MMQR strings for one merchant.
type Encoder struct {
	merchant      Merchant
	defaultAmount decimal.Decimal
}

func NewEncoder(merchant Merchant) *Encoder {
	return &Encoder{
		merchant:      merchant,
		defaultAmount: decimal.NewFromInt(ESIMPrice),
	}
}

// Encode builds a complete MMQR string. A null amount falls back to the eSIM
// price; an empty orderRef omits the additional data tag. The trailing CRC is
// computed over everything written before it, the "6304" prefix included.
func (e *Encoder) Encode(amount decimal.NullDecimal, orderRef string) (string, error) {
	value := e.defaultAmount
	if amount.Valid {
		value = amount.Decimal
	}
	if value.IsNegative() {
		return "", ErrInvalidAmount
	}

	merchantAccount, err := tlv.Records{
		{Tag: SubTagMerchantDomain, Value: e.merchant.Domain},
		{Tag: SubTagMerchantID, Value: e.merchant.ID},
	}.Encode()
	if err != nil {
		return "", fmt.Errorf("merchant account: %w", err)
	}

	records := tlv.Records{
		{Tag: TagPayloadFormat, Value: "01"},
		{Tag: TagPointOfInitiation, Value: "11"},
		{Tag: TagMerchantAccount, Value: merchantAccount},
		{Tag: TagMerchantCategory, Value: e.merchant.CategoryCode},
		{Tag: TagCurrency, Value: CurrencyMMK},
		{Tag: TagAmount, Value: value.Truncate(0).String()},
		{Tag: TagCountryCode, Value: CountryMM},
		{Tag: TagMerchantName, Value: e.merchant.Name},
		{Tag: TagMerchantCity, Value: e.merchant.City},
		{Tag: TagPostalCode, Value: e.merchant.PostalCode},
	}

	if orderRef != "" {
		additional, err := tlv.Encode(SubTagOrderReference, orderRef)
		if err != nil {
			return "", fmt.Errorf("order reference: %w", err)
		}
		records = append(records, tlv.Record{Tag: TagAdditionalData, Value: additional})
	}

	body, err := records.Encode()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString(crcPrefix)
	sb.WriteString(crc16.SumString(sb.String()))

	return sb.String(), nil
}
