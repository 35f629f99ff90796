package transactease

import (
	"fmt"
	jsoniter "github.com/json-iterator/go"
	"strings"
)

type ResponseCode string

const (
	CodeSuccess               ResponseCode = "000"
	CodeFailed                ResponseCode = "001"
	CodeCanceled              ResponseCode = "002"
	CodeInvalidField          ResponseCode = "012"
	CodeInvalidHash           ResponseCode = "016"
	CodeInvalidAuthorization  ResponseCode = "998"
	CodeInvalidAuthentication ResponseCode = "999"
)

var responseMessages = map[ResponseCode]string{
	CodeSuccess:               "Success",
	CodeFailed:                "Transaction Failed",
	CodeCanceled:              "Transaction Canceled",
	CodeInvalidField:          "Invalid Field Information",
	CodeInvalidHash:           "Invalid Hash Value",
	CodeInvalidAuthorization:  "Invalid Authorization",
	CodeInvalidAuthentication: "Invalid Authentication",
}

func (c ResponseCode) Message() string {
	if msg, ok := responseMessages[c]; ok {
		return msg
	}
	return "Unknown Error"
}

func (c ResponseCode) Success() bool {
	return c == CodeSuccess
}

func (c ResponseCode) Canceled() bool {
	return c == CodeCanceled
}

// Amount accepts both quoted and bare JSON numbers.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = ""
		return nil
	}
	*a = Amount(strings.Trim(s, `"`))
	return nil
}

// CallbackPayload is the JSON body of a payment notification.
type CallbackPayload struct {
	ResponseCode               ResponseCode `json:"ResponseCode"`
	RequestID                  string       `json:"RequestID"`
	TransactionID              string       `json:"TransactionID"`
	TransactionReferenceNumber string       `json:"TransactionReferenceNumber"`
	InvoiceNo                  string       `json:"InvoiceNo"`
	Amount                     Amount       `json:"Amount"`
	Currency                   string       `json:"Currency"`
	PaymentMethod              string       `json:"PaymentMethod"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseCallbackPayload decodes a verified notification body. A missing
// ResponseCode is treated as 999.
func ParseCallbackPayload(payload []byte) (*CallbackPayload, error) {
	var p CallbackPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode callback payload: %w", err)
	}
	if p.ResponseCode == "" {
		p.ResponseCode = CodeInvalidAuthentication
	}
	return &p, nil
}
