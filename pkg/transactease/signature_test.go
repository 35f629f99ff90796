package transactease

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignature(t *testing.T) {
	assert.Equal(t, "iKqz7ejTrflNJquQ07r9SiCDBww7zOnAFO4EpEOEfAs=", ComputeSignature("hello", "secret"))
	assert.Equal(t, ComputeSignature("hello", "secret"), ComputeSignature("hello", "secret"))
	assert.NotEqual(t, ComputeSignature("hello", "secret"), ComputeSignature("hello", "secret2"))
	assert.NotEqual(t, ComputeSignature("hello", "secret"), ComputeSignature("hello ", "secret"))
}

func TestNewSigner_EmptySecret(t *testing.T) {
	s, err := NewSigner("ak", "")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSigner_Verify(t *testing.T) {
	s, err := NewSigner("ak", "secret")
	require.NoError(t, err)

	assert.True(t, s.Verify("hello", "iKqz7ejTrflNJquQ07r9SiCDBww7zOnAFO4EpEOEfAs="))
	assert.False(t, s.Verify("hello", "iKqz7ejTrflNJquQ07r9SiCDBww7zOnAFO4EpEOEfAs"))
	assert.False(t, s.Verify("hello", ""))
}

func TestSigner_AccessKeyMatches(t *testing.T) {
	s, err := NewSigner("ak-test", "secret")
	require.NoError(t, err)
	assert.True(t, s.AccessKeyMatches("ak-test"))
	assert.False(t, s.AccessKeyMatches("ak-other"))

	open, err := NewSigner("", "secret")
	require.NoError(t, err)
	assert.True(t, open.AccessKeyMatches("anything"))
}

func TestConfig(t *testing.T) {
	cfg := Config{MerchantUserID: "m", AccessKey: "a", SecretKey: "s", BaseURL: ProductionURL + "/"}.WithDefaults()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultChannel, cfg.Channel)
	assert.Equal(t, DefaultPaymentMethods, cfg.PaymentMethods)
	assert.Equal(t, DefaultCurrency, cfg.Currency)
	assert.Equal(t, DefaultExpiredInSeconds, cfg.ExpiredInSeconds)
	assert.Equal(t, "https://pgw.transactease.com.mm/Payments/Request", cfg.PaymentURL())

	assert.Equal(t, UATURL, Config{}.WithDefaults().BaseURL)
	assert.ErrorIs(t, Config{MerchantUserID: "m", AccessKey: "a"}.Validate(), ErrEmptySecret)
	assert.ErrorIs(t, Config{SecretKey: "s"}.Validate(), ErrInvalidConfig)
}
