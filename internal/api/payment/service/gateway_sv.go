package paymentService

import (
	"EsimMyanmar/internal/api/payment"
	"EsimMyanmar/internal/entity"
	contextPkg "EsimMyanmar/pkg/context"
	"EsimMyanmar/pkg/phone"
	"EsimMyanmar/pkg/transactease"
	"context"
	"errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const noncePrefix = "transactease:nonce:"

func (s *paymentService) InitiatePayment(ctx context.Context, userID string, req payment.InitiatePaymentRequest) (*payment.InitiatePaymentResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.gateway == nil {
		return nil, payment.ErrGatewayUnavailable
	}

	eligibility, err := s.checkEligibility(ctx, req.CustomerPhone, req.Provider)
	if err != nil {
		return nil, err
	}

	amount, err := resolveAmount(req.Amount)
	if err != nil {
		return nil, err
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

	provider := string(eligibility.DetectedProvider)
	if eligibility.DetectedProvider == phone.Unknown {
		provider = string(eligibility.RequestedProvider)
	}

	form, err := s.gateway.BuildPaymentForm(transactease.PaymentRequest{
		Amount:        amount,
		InvoiceNo:     orderID,
		CustomerName:  req.CustomerName,
		CustomerPhone: eligibility.Normalized,
		CustomerEmail: req.CustomerEmail,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		PostalCode:    req.PostalCode,
		State:         req.State,
		Country:       req.Country,
		Remark:        req.Remark,
		UserDefined:   [5]string{orderID, provider, userID},
		SuccessURL:    s.routes.absolute(s.routes.SuccessURI),
		CancelURL:     s.routes.absolute(s.routes.CancelURI),
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   orderID,
			"error":      err.Error(),
		}).Error("Failed to build payment form")
		if errors.Is(err, transactease.ErrInvalidAmount) {
			return nil, payment.ErrInvalidAmount
		}
		return nil, err
	}

	order := entity.PaymentOrder{
		ID:            orderID,
		UserID:        userID,
		RequestID:     form.RequestID(),
		Method:        entity.PaymentMethodTransactease,
		Amount:        amount,
		Currency:      s.gateway.Config().Currency,
		Status:        entity.OrderStatusPending,
		Provider:      provider,
		PhoneNumber:   eligibility.Normalized,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.createOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":         requestID,
		"order_id":           orderID,
		"gateway_request_id": order.RequestID,
	}).Info("Payment initiated")

	return &payment.InitiatePaymentResponse{
		OrderID:    orderID,
		RequestID:  order.RequestID,
		PaymentURL: s.gateway.Config().PaymentURL(),
		Fields:     form.Fields,
		FormData:   form.Fields.Map(),
	}, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, req payment.CallbackRequest) (*payment.CallbackResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.gateway == nil {
		return nil, payment.ErrGatewayUnavailable
	}

	uri := s.routes.CallbackURI
	if uri == "" {
		uri = req.URI
	}

	verdict := s.gateway.Signer().ValidateCallback(transactease.CallbackEnvelope{
		Method:    "POST",
		URI:       uri,
		AccessKey: req.AccessKey,
		Timestamp: req.Timestamp,
		Nonce:     req.Nonce,
		Payload:   string(req.Payload),
		Signature: req.Signature,
	})
	if !verdict.Valid {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"nonce":      req.Nonce,
			"reason":     verdict.Reason.Error(),
		}).Warn("Rejected payment callback")
		return nil, verdictError(verdict)
	}

	if err := s.claimNonce(ctx, req.Nonce, req.Timestamp); err != nil {
		return nil, err
	}

	callback, err := transactease.ParseCallbackPayload(req.Payload)
	if err != nil || callback.RequestID == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      errString(err),
		}).Warn("Invalid callback payload")
		return nil, payment.ErrInvalidPayload
	}

	status := statusForCode(callback.ResponseCode)

	order, err := s.applyGatewayOutcome(ctx, callback.RequestID, func(order entity.PaymentOrder) entity.PaymentOrderUpdate {
		update := entity.PaymentOrderUpdate{
			Status:               status,
			ResponseCode:         string(callback.ResponseCode),
			TransactionID:        callback.TransactionID,
			TransactionReference: callback.TransactionReferenceNumber,
		}
		if status == entity.OrderStatusPaid && !amountMatches(order.Amount, string(callback.Amount)) {
			s.log.WithFields(logrus.Fields{
				"request_id":   requestID,
				"order_id":     order.ID,
				"order_amount": order.Amount.String(),
				"paid_amount":  string(callback.Amount),
			}).Warn("Callback amount does not match order")
			update.Status = entity.OrderStatusFailed
		}
		return update
	})
	if err != nil {
		s.releaseNonce(ctx, req.Nonce)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":         requestID,
		"gateway_request_id": callback.RequestID,
		"response_code":      string(callback.ResponseCode),
		"order_status":       string(order.Status),
	}).Info("Payment callback processed")

	return &payment.CallbackResponse{
		Success:              callback.ResponseCode.Success(),
		ResponseCode:         string(callback.ResponseCode),
		Message:              callback.ResponseCode.Message(),
		RequestID:            callback.RequestID,
		TransactionID:        callback.TransactionID,
		TransactionReference: callback.TransactionReferenceNumber,
		Amount:               string(callback.Amount),
		OrderStatus:          order.Status,
	}, nil
}

func (s *paymentService) HandleRedirect(ctx context.Context, req payment.RedirectRequest) (*payment.RedirectResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.gateway == nil {
		return nil, payment.ErrGatewayUnavailable
	}

	uri := req.URI
	switch req.Kind {
	case payment.RedirectSuccess:
		if s.routes.SuccessURI != "" {
			uri = s.routes.SuccessURI
		}
	case payment.RedirectCancel:
		if s.routes.CancelURI != "" {
			uri = s.routes.CancelURI
		}
	}

	verdict := s.gateway.Signer().ValidateRedirect(transactease.RedirectEnvelope{
		Method: "GET",
		URI:    uri,
		Params: req.Params,
	})
	if !verdict.Valid {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"kind":       string(req.Kind),
			"reason":     verdict.Reason.Error(),
		}).Warn("Rejected payment redirect")
		return nil, verdictError(verdict)
	}

	gatewayRequestID := req.Params.Value(transactease.ParamRequestID)
	status := entity.OrderStatusPaid
	message := "Payment completed successfully"
	if req.Kind == payment.RedirectCancel {
		status = entity.OrderStatusCancelled
		message = "Payment was cancelled"
	}

	order, err := s.applyGatewayOutcome(ctx, gatewayRequestID, func(entity.PaymentOrder) entity.PaymentOrderUpdate {
		return entity.PaymentOrderUpdate{
			Status:               status,
			TransactionID:        req.Params.Value(transactease.ParamTransactionID),
			TransactionReference: req.Params.Value(transactease.ParamTransactionRef),
		}
	})
	if err != nil {
		return nil, err
	}

	return &payment.RedirectResponse{
		Success:              req.Kind == payment.RedirectSuccess,
		Message:              message,
		RequestID:            gatewayRequestID,
		TransactionID:        req.Params.Value(transactease.ParamTransactionID),
		TransactionReference: req.Params.Value(transactease.ParamTransactionRef),
		OrderStatus:          order.Status,
	}, nil
}

func (s *paymentService) GetPaymentStatus(ctx context.Context, userID, requestID string) (*payment.PaymentStatusResponse, error) {
	traceID := contextPkg.GetRequestID(ctx)

	repo, err := s.orderRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": traceID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	order, err := repo.Order.GetOrderByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, order, userID); err != nil {
		return nil, err
	}

	resp := &payment.PaymentStatusResponse{
		RequestID:    requestID,
		OrderID:      order.ID,
		Status:       order.Status,
		ResponseCode: order.ResponseCode,
		Message:      statusMessage(order),
	}

	if s.statusClient != nil {
		live, err := s.statusClient.TransactionStatus(ctx, requestID, s.statusToken)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":         traceID,
				"gateway_request_id": requestID,
				"error":              err.Error(),
			}).Warn("Gateway status lookup failed, returning stored status")
		} else {
			resp.GatewayStatus = &live.MsgData
		}
	}

	return resp, nil
}

// applyGatewayOutcome locks the order behind gatewayRequestID and applies
// the update built by next. Finalized orders are returned unchanged.
func (s *paymentService) applyGatewayOutcome(ctx context.Context, gatewayRequestID string, next func(entity.PaymentOrder) entity.PaymentOrderUpdate) (entity.PaymentOrder, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.orderRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.PaymentOrder{}, err
	}
	defer repo.Rollback()

	order, err := repo.Order.LockOrderByRequestID(ctx, gatewayRequestID)
	if err != nil {
		return entity.PaymentOrder{}, err
	}

	if order.Status.Final() {
		s.log.WithFields(logrus.Fields{
			"request_id":         requestID,
			"gateway_request_id": gatewayRequestID,
			"order_status":       string(order.Status),
		}).Info("Order already finalized, ignoring gateway event")
		return order, nil
	}

	update := next(order)
	if err := repo.Order.UpdateOrderStatus(ctx, order.ID, update); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   order.ID,
			"error":      err.Error(),
		}).Error("Failed to update order status")
		return entity.PaymentOrder{}, payment.ErrUpdateOrder
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return entity.PaymentOrder{}, payment.ErrUpdateOrder
	}

	order.Status = update.Status
	order.ResponseCode = update.ResponseCode
	if update.TransactionID != "" {
		order.TransactionID = update.TransactionID
	}
	if update.TransactionReference != "" {
		order.TransactionReference = update.TransactionReference
	}

	return order, nil
}

func (s *paymentService) claimNonce(ctx context.Context, nonce, timestamp string) error {
	if s.nonces == nil {
		return nil
	}

	ok, err := s.nonces.SetNX(ctx, noncePrefix+nonce, timestamp, s.nonceTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to record callback nonce")
		return err
	}
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"nonce":      nonce,
		}).Warn("Replayed callback nonce")
		return payment.ErrReplayedNonce
	}

	return nil
}

// releaseNonce lets the gateway retry a callback we failed to persist.
func (s *paymentService) releaseNonce(ctx context.Context, nonce string) {
	if s.nonces == nil {
		return
	}
	if err := s.nonces.Delete(ctx, noncePrefix+nonce); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to release callback nonce")
	}
}

func verdictError(v transactease.Verdict) error {
	switch {
	case errors.Is(v.Reason, transactease.ErrMissingSignatureField):
		return payment.ErrMissingSignature
	case errors.Is(v.Reason, transactease.ErrInvalidAccessKey):
		return payment.ErrInvalidAccessKey
	default:
		return payment.ErrInvalidSignature
	}
}

func statusForCode(code transactease.ResponseCode) entity.OrderStatus {
	switch {
	case code.Success():
		return entity.OrderStatusPaid
	case code.Canceled():
		return entity.OrderStatusCancelled
	default:
		return entity.OrderStatusFailed
	}
}

func statusMessage(order entity.PaymentOrder) string {
	if order.ResponseCode != "" {
		return transactease.ResponseCode(order.ResponseCode).Message()
	}
	switch order.Status {
	case entity.OrderStatusPaid:
		return "Success"
	case entity.OrderStatusCancelled:
		return "Transaction Canceled"
	case entity.OrderStatusPending:
		return "Awaiting payment"
	}
	return "Transaction " + string(order.Status)
}

// amountMatches treats an absent gateway amount as a match.
func amountMatches(expected decimal.Decimal, paid string) bool {
	if paid == "" {
		return true
	}
	d, err := decimal.NewFromString(paid)
	if err != nil {
		return false
	}
	return d.Equal(expected)
}

func errString(err error) string {
	if err == nil {
		return "missing RequestID"
	}
	return err.Error()
}
