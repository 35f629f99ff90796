package entity

import (
	"github.com/shopspring/decimal"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodMMQR         PaymentMethod = "mmqr"
	PaymentMethodTransactease PaymentMethod = "transactease"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// Final reports whether no further gateway event may change the status.
func (s OrderStatus) Final() bool {
	switch s {
	case OrderStatusPaid, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// PaymentOrder is one eSIM purchase and its payment state.
type PaymentOrder struct {
	ID                   string          `db:"id"`
	UserID               string          `db:"user_id"`
	RequestID            string          `db:"request_id"`
	Method               PaymentMethod   `db:"payment_method"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	Status               OrderStatus     `db:"status"`
	Provider             string          `db:"provider"`
	PhoneNumber          string          `db:"phone_number"`
	CustomerName         string          `db:"customer_name"`
	CustomerEmail        string          `db:"customer_email"`
	QRString             string          `db:"qr_string"`
	ResponseCode         string          `db:"response_code"`
	TransactionID        string          `db:"transaction_id"`
	TransactionReference string          `db:"transaction_reference"`
	ProofURL             string          `db:"proof_url"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// PaymentOrderUpdate carries the gateway outcome applied to an order.
type PaymentOrderUpdate struct {
	Status               OrderStatus
	ResponseCode         string
	TransactionID        string
	TransactionReference string
}
