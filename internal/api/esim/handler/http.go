package esimHandler

import (
	esimService "EsimMyanmar/internal/api/esim/service"
	"EsimMyanmar/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type EsimHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	esimService esimService.IEsimService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	es esimService.IEsimService,
) *EsimHandler {
	return &EsimHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		esimService: es,
	}
}

func (h *EsimHandler) Start(srv fiber.Router) {
	esim := srv.Group("/esim", h.middleware.NewRateLimiter)

	esim.Post("/validate-phone", h.ValidatePhone)
	esim.Get("/providers", h.Providers)
}
