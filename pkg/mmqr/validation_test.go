package mmqr

import (
	"strings"
	"testing"
	"time"

	"EsimMyanmar/pkg/crc16"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestValidator(opts ...ValidatorOption) *Validator {
	return NewValidator(append([]ValidatorOption{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func withCRC(body string) string {
	body += "6304"
	return body + crc16.SumString(body)
}

func TestValidate_ExactAmount(t *testing.T) {
	result := newTestValidator().Validate(staticQR, decimal.NewFromInt(12000))

	assert.True(t, result.Valid)
	assert.Equal(t, StatusVerified, result.Status)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, fixedNow, result.Timestamp)

	require.NotNil(t, result.Data)
	assert.Equal(t, "ESIM Myanmar", result.Data.MerchantName)
	assert.Equal(t, "Yangon", result.Data.MerchantCity)
	assert.Equal(t, CurrencyMMK, result.Data.Currency)
	assert.Equal(t, CountryMM, result.Data.CountryCode)
	assert.True(t, decimal.NewFromInt(12000).Equal(result.Data.Amount.Decimal))
}

func TestValidate_AmountBoundaries(t *testing.T) {
	v := newTestValidator()

	under := v.Validate(staticQR, decimal.NewFromInt(12001))
	assert.False(t, under.Valid)
	assert.Equal(t, StatusFailed, under.Status)
	require.Len(t, under.Errors, 1)
	assert.Contains(t, strings.ToLower(under.Errors[0]), "insufficient")
	assert.Empty(t, under.Warnings)

	over := v.Validate(staticQR, decimal.NewFromInt(11999))
	assert.True(t, over.Valid)
	assert.Empty(t, over.Errors)
	require.Len(t, over.Warnings, 1)
	assert.Contains(t, strings.ToLower(over.Warnings[0]), "overpayment")
}

func TestValidate_NoAmountSkipsComparison(t *testing.T) {
	qr := withCRC("000201010211" + "5303104" + "5802MM" + "5912ESIM Myanmar")

	result := newTestValidator().Validate(qr, decimal.NewFromInt(ESIMPrice))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_CountryAndCurrency(t *testing.T) {
	qr := withCRC("000201010211" + "5303764" + "540512000" + "5802TH")

	result := newTestValidator().Validate(qr, decimal.NewFromInt(12000))
	assert.False(t, result.Valid)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, []string{
		"Invalid country code: must be MM (Myanmar)",
		"Invalid currency: expected 104 (MMK)",
	}, result.Errors)
	require.NotNil(t, result.Data)
	assert.Equal(t, "TH", result.Data.CountryCode)
}

func TestValidate_CRC(t *testing.T) {
	mismatched := staticQR[:len(staticQR)-4] + "0000"
	missing := "000201010211" + "5303104" + "540512000" + "5802MM"

	t.Run("mismatch warns", func(t *testing.T) {
		result := newTestValidator().Validate(mismatched, decimal.NewFromInt(12000))
		assert.True(t, result.Valid)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "CRC checksum mismatch: got 0000, expected 1B6D", result.Warnings[0])
	})

	t.Run("mismatch fails when strict", func(t *testing.T) {
		result := newTestValidator(WithStrictCRC()).Validate(mismatched, decimal.NewFromInt(12000))
		assert.False(t, result.Valid)
		assert.Empty(t, result.Warnings)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "CRC checksum mismatch")
	})

	t.Run("misplaced tag is named", func(t *testing.T) {
		misplaced := withCRC("000201010211"+"5303104"+"540512000"+"5802MM") + "9902XX"

		result := newTestValidator().Validate(misplaced, decimal.NewFromInt(12000))
		assert.True(t, result.Valid)
		assert.Equal(t, []string{"CRC tag must be the final record and carry 4 characters"}, result.Warnings)

		result = newTestValidator(WithStrictCRC()).Validate(misplaced, decimal.NewFromInt(12000))
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"CRC tag must be the final record and carry 4 characters"}, result.Errors)
	})

	t.Run("missing warns even when strict", func(t *testing.T) {
		result := newTestValidator(WithStrictCRC()).Validate(missing, decimal.NewFromInt(12000))
		assert.True(t, result.Valid)
		assert.Equal(t, []string{"CRC checksum missing"}, result.Warnings)
	})
}

func TestValidate_DecodeFailure(t *testing.T) {
	result := newTestValidator().Validate("short", decimal.NewFromInt(12000))

	assert.False(t, result.Valid)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Nil(t, result.Data)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Failed to parse MMQR: "))
	assert.NotNil(t, result.Warnings)
}

func TestValidate_GeneratedCode(t *testing.T) {
	qr, err := NewEncoder(DefaultMerchant()).Encode(decimal.NullDecimal{}, "ORD-77")
	require.NoError(t, err)

	result := newTestValidator(WithStrictCRC()).Validate(qr, decimal.NewFromInt(ESIMPrice))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "ORD-77", result.Data.OrderReference)
	assert.Equal(t, DefaultMerchant().ID, result.Data.MerchantID)
}
