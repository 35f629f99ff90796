package paymentService

import (
	"EsimMyanmar/internal/api/payment"
	"EsimMyanmar/internal/entity"
	contextPkg "EsimMyanmar/pkg/context"
	"EsimMyanmar/pkg/mmqr"
	"context"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func (s *paymentService) GenerateMMQR(ctx context.Context, userID string, req payment.GenerateQRRequest) (*payment.GenerateQRResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	eligibility, err := s.checkEligibility(ctx, req.PhoneNumber, req.Provider)
	if err != nil {
		return nil, err
	}

	amount, err := resolveAmount(req.Amount)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"amount":     req.Amount.Decimal.String(),
		}).Warn("Invalid MMQR amount")
		return nil, err
	}
	// MMQR carries whole kyats only.
	amount = amount.Truncate(0)
	if !amount.IsPositive() {
		return nil, payment.ErrInvalidAmount
	}

	now := s.now()
	orderID, err := s.utils.NewOrderID(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate order id")
		return nil, err
	}

	qr, err := s.encoder.Encode(decimal.NewNullDecimal(amount), orderID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   orderID,
			"error":      err.Error(),
		}).Error("Failed to encode MMQR")
		return nil, payment.ErrInvalidAmount
	}

	order := entity.PaymentOrder{
		ID:          orderID,
		UserID:      userID,
		Method:      entity.PaymentMethodMMQR,
		Amount:      amount,
		Currency:    "MMK",
		Status:      entity.OrderStatusPending,
		Provider:    string(eligibility.DetectedProvider),
		PhoneNumber: eligibility.Normalized,
		QRString:    qr,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.createOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"order_id":   orderID,
		"amount":     amount.String(),
	}).Info("MMQR generated")

	return &payment.GenerateQRResponse{
		OrderID:   orderID,
		QRString:  qr,
		Amount:    amount,
		Currency:  "MMK",
		Merchant:  mmqr.DefaultMerchant().Name,
		CreatedAt: now,
	}, nil
}

func (s *paymentService) VerifyMMQR(ctx context.Context, userID string, req payment.VerifyQRRequest) (*payment.VerifyQRResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.OrderID == "" {
		expected := decimal.NewFromInt(mmqr.ESIMPrice)
		if req.ExpectedAmount.Valid {
			expected = req.ExpectedAmount.Decimal
		}
		return &payment.VerifyQRResponse{
			Validation: s.qrValidator.Validate(req.QRString, expected),
		}, nil
	}

	order, err := s.ownedOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	// A matching QR never settles the order; only a gateway confirmation marks it paid.
	result := s.qrValidator.Validate(req.QRString, order.Amount)
	if result.Data != nil && result.Data.OrderReference != "" && result.Data.OrderReference != order.ID {
		result.Errors = append(result.Errors, "Order reference does not match order")
		result.Valid = false
		result.Status = mmqr.StatusFailed
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"order_id":   order.ID,
		"valid":      result.Valid,
	}).Info("MMQR verified against order")

	return &payment.VerifyQRResponse{
		OrderID:     order.ID,
		OrderStatus: order.Status,
		Validation:  result,
	}, nil
}

func (s *paymentService) ParseMMQR(ctx context.Context, qr string) (*payment.ParseQRResponse, error) {
	data, err := mmqr.Decode(qr)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to parse MMQR")
		return nil, payment.ErrInvalidQR
	}

	return &payment.ParseQRResponse{
		ParsedData: data,
		CRCValid:   data.CRCValid(),
		Validation: s.qrValidator.Validate(qr, decimal.NewFromInt(mmqr.ESIMPrice)),
	}, nil
}

// resolveAmount defaults an absent amount to the eSIM list price.
func resolveAmount(amount decimal.NullDecimal) (decimal.Decimal, error) {
	if !amount.Valid {
		return decimal.NewFromInt(mmqr.ESIMPrice), nil
	}
	if !amount.Decimal.IsPositive() {
		return decimal.Decimal{}, payment.ErrInvalidAmount
	}
	return amount.Decimal, nil
}
