package paymentHandler

import (
	paymentService "EsimMyanmar/internal/api/payment/service"
	"EsimMyanmar/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	paymentService paymentService.IPaymentService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps paymentService.IPaymentService,
) *PaymentHandler {
	return &PaymentHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		paymentService: ps,
	}
}

func (h *PaymentHandler) Start(srv fiber.Router) {
	payments := srv.Group("/payments")

	qr := payments.Group("/mmqr")
	qr.Post("/generate", h.middleware.NewTokenMiddleware, h.GenerateMMQR)
	qr.Post("/verify", h.middleware.NewTokenMiddleware, h.VerifyMMQR)
	qr.Get("/parse", h.middleware.NewRateLimiter, h.ParseMMQR)

	payments.Get("/orders", h.middleware.NewTokenMiddleware, h.ListOrders)
	payments.Get("/orders/:order_id", h.middleware.NewTokenMiddleware, h.GetOrder)
	payments.Post("/orders/:order_id/proof", h.middleware.NewTokenMiddleware, h.UploadPaymentProof)

	gateway := payments.Group("/transactease")
	gateway.Post("/initiate", h.middleware.NewTokenMiddleware, h.InitiatePayment)
	gateway.Get("/status/:request_id", h.middleware.NewTokenMiddleware, h.GetPaymentStatus)

	gateway.Post("/callback", h.middleware.NewRateLimiter, h.PaymentCallback)
	gateway.Get("/success", h.PaymentSuccess)
	gateway.Get("/cancel", h.PaymentCancel)
}
