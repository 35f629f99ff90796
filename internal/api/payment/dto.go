package payment

import (
	"EsimMyanmar/internal/entity"
	"EsimMyanmar/pkg/mmqr"
	"EsimMyanmar/pkg/transactease"
	"github.com/shopspring/decimal"
	"time"
)

type GenerateQRRequest struct {
	PhoneNumber string              `json:"phone_number" validate:"required,min=9,max=20"`
	Provider    string              `json:"provider" validate:"required"`
	Amount      decimal.NullDecimal `json:"amount"`
}

type GenerateQRResponse struct {
	OrderID   string          `json:"order_id"`
	QRString  string          `json:"qr_string"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Merchant  string          `json:"merchant"`
	CreatedAt time.Time       `json:"created_at"`
}

// VerifyQRRequest checks a scanned code. With OrderID the order amount is
// expected and the order is marked paid on success.
type VerifyQRRequest struct {
	QRString       string              `json:"qr_string" validate:"required,min=20"`
	OrderID        string              `json:"order_id"`
	ExpectedAmount decimal.NullDecimal `json:"expected_amount"`
}

type VerifyQRResponse struct {
	OrderID     string                `json:"order_id,omitempty"`
	OrderStatus entity.OrderStatus    `json:"order_status,omitempty"`
	Validation  mmqr.ValidationResult `json:"validation"`
}

type ParseQRResponse struct {
	ParsedData *mmqr.Data            `json:"parsed_data"`
	CRCValid   bool                  `json:"crc_valid"`
	Validation mmqr.ValidationResult `json:"validation"`
}

type InitiatePaymentRequest struct {
	Amount        decimal.NullDecimal `json:"amount"`
	CustomerName  string              `json:"customer_name" validate:"required,max=100"`
	CustomerPhone string              `json:"customer_phone" validate:"required,min=9,max=20"`
	CustomerEmail string              `json:"customer_email" validate:"required,email"`
	Provider      string              `json:"provider" validate:"required"`
	AddressLine1  string              `json:"address_line1" validate:"max=100"`
	AddressLine2  string              `json:"address_line2" validate:"max=100"`
	City          string              `json:"city" validate:"max=50"`
	PostalCode    string              `json:"postal_code" validate:"max=10"`
	State         string              `json:"state" validate:"max=50"`
	Country       string              `json:"country" validate:"omitempty,len=2"`
	Remark        string              `json:"remark" validate:"max=100"`
}

type InitiatePaymentResponse struct {
	OrderID    string              `json:"order_id"`
	RequestID  string              `json:"request_id"`
	PaymentURL string              `json:"payment_url"`
	Fields     transactease.Fields `json:"fields"`
	FormData   map[string]string   `json:"form_data"`
}

// CallbackRequest is a gateway notification as received on the wire.
type CallbackRequest struct {
	URI       string
	AccessKey string
	Timestamp string
	Nonce     string
	Signature string
	Payload   []byte
}

type CallbackResponse struct {
	Success              bool               `json:"success"`
	ResponseCode         string             `json:"response_code"`
	Message              string             `json:"message"`
	RequestID            string             `json:"request_id"`
	TransactionID        string             `json:"transaction_id"`
	TransactionReference string             `json:"transaction_reference"`
	Amount               string             `json:"amount"`
	OrderStatus          entity.OrderStatus `json:"order_status"`
}

type RedirectKind string

const (
	RedirectSuccess RedirectKind = "success"
	RedirectCancel  RedirectKind = "cancel"
)

type RedirectRequest struct {
	Kind   RedirectKind
	URI    string
	Params transactease.Fields
}

type RedirectResponse struct {
	Success              bool               `json:"success"`
	Message              string             `json:"message"`
	RequestID            string             `json:"request_id"`
	TransactionID        string             `json:"transaction_id,omitempty"`
	TransactionReference string             `json:"transaction_reference"`
	OrderStatus          entity.OrderStatus `json:"order_status"`
}

type PaymentStatusResponse struct {
	RequestID     string                          `json:"request_id"`
	OrderID       string                          `json:"order_id"`
	Status        entity.OrderStatus              `json:"status"`
	ResponseCode  string                          `json:"response_code,omitempty"`
	Message       string                          `json:"message"`
	GatewayStatus *transactease.TransactionStatus `json:"gateway_status,omitempty"`
}

type OrderResponse struct {
	OrderID              string               `json:"order_id"`
	RequestID            string               `json:"request_id,omitempty"`
	Method               entity.PaymentMethod `json:"payment_method"`
	Amount               decimal.Decimal      `json:"amount"`
	Currency             string               `json:"currency"`
	Status               entity.OrderStatus   `json:"status"`
	Provider             string               `json:"provider"`
	PhoneNumber          string               `json:"phone_number"`
	QRString             string               `json:"qr_string,omitempty"`
	TransactionID        string               `json:"transaction_id,omitempty"`
	TransactionReference string               `json:"transaction_reference,omitempty"`
	ProofURL             string               `json:"proof_url,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

type OrderHistoryResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type ProofUploadResponse struct {
	OrderID  string `json:"order_id"`
	ProofURL string `json:"proof_url"`
}

func NewOrderResponse(o entity.PaymentOrder) OrderResponse {
	return OrderResponse{
		OrderID:              o.ID,
		RequestID:            o.RequestID,
		Method:               o.Method,
		Amount:               o.Amount,
		Currency:             o.Currency,
		Status:               o.Status,
		Provider:             o.Provider,
		PhoneNumber:          o.PhoneNumber,
		QRString:             o.QRString,
		TransactionID:        o.TransactionID,
		TransactionReference: o.TransactionReference,
		ProofURL:             o.ProofURL,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
