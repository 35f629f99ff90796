package paymentHandler

import (
	"EsimMyanmar/internal/api/payment"
	contextPkg "EsimMyanmar/pkg/context"
	"EsimMyanmar/pkg/handlerUtil"
	jwtPkg "EsimMyanmar/pkg/jwt"
	"EsimMyanmar/pkg/log"
	"EsimMyanmar/pkg/transactease"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *PaymentHandler) InitiatePayment(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing payment initiation")

	var req payment.InitiatePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.paymentService.InitiatePayment(c, userData.ID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "initiate_payment")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

// PaymentCallback receives the gateway notification. The body is passed on
// untouched because the signature covers its exact bytes.
func (h *PaymentHandler) PaymentCallback(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	req := payment.CallbackRequest{
		URI:       ctx.Path(),
		AccessKey: ctx.Get(transactease.HeaderAccessKey),
		Timestamp: ctx.Get(transactease.HeaderTimestamp),
		Nonce:     ctx.Get(transactease.HeaderNonce),
		Signature: ctx.Get(transactease.HeaderSignature),
		Payload:   append([]byte(nil), ctx.Body()...),
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"nonce":      req.Nonce,
		"timestamp":  req.Timestamp,
	}).Info("Received payment callback")

	res, err := h.paymentService.HandleCallback(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "payment_callback")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *PaymentHandler) PaymentSuccess(ctx *fiber.Ctx) error {
	return h.redirect(ctx, payment.RedirectSuccess)
}

func (h *PaymentHandler) PaymentCancel(ctx *fiber.Ctx) error {
	return h.redirect(ctx, payment.RedirectCancel)
}

func (h *PaymentHandler) redirect(ctx *fiber.Ctx, kind payment.RedirectKind) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	req := payment.RedirectRequest{
		Kind:   kind,
		URI:    ctx.Path(),
		Params: transactease.FieldsFromArgs(ctx.Context().QueryArgs()),
	}

	res, err := h.paymentService.HandleRedirect(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "payment_"+string(kind))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *PaymentHandler) GetPaymentStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	gatewayRequestID := ctx.Params("request_id")
	if gatewayRequestID == "" {
		return errHandler.Handle(ctx, requestID, payment.ErrOrderNotFound, ctx.Path(), "get_payment_status")
	}

	res, err := h.paymentService.GetPaymentStatus(c, userData.ID, gatewayRequestID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_payment_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
