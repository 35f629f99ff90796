// Package transactease implements the canonical string and HMAC-SHA256
// signing protocol of the Transactease hosted payment gateway.
package transactease

import (
	"fmt"
	"strings"
)

const (
	UATURL        = "https://uatpgw.transactease.com.mm"
	ProductionURL = "https://pgw.transactease.com.mm"

	DefaultChannel          = "eSIM Myanmar"
	DefaultPaymentMethods   = "mmqr,visa_master"
	DefaultCurrency         = "MMK"
	DefaultExpiredInSeconds = 300

	PaymentRequestPath    = "/Payments/Request"
	TransactionStatusPath = "/api/transaction/status"
)

type Config struct {
	MerchantUserID   string
	AccessKey        string
	SecretKey        string
	Channel          string
	BaseURL          string
	PaymentMethods   string
	Currency         string
	ExpiredInSeconds int
	InstitutionID    string
}

// WithDefaults fills every optional field left empty.
func (c Config) WithDefaults() Config {
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.BaseURL == "" {
		c.BaseURL = UATURL
	}
	if c.PaymentMethods == "" {
		c.PaymentMethods = DefaultPaymentMethods
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.ExpiredInSeconds <= 0 {
		c.ExpiredInSeconds = DefaultExpiredInSeconds
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

func (c Config) Validate() error {
	if c.SecretKey == "" {
		return ErrEmptySecret
	}

	var missing []string
	if c.MerchantUserID == "" {
		missing = append(missing, "merchant user id")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	return nil
}

// PaymentURL is the hosted page the signed form is posted to.
func (c Config) PaymentURL() string {
	return c.BaseURL + PaymentRequestPath
}
