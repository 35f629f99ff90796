package config

import (
	"EsimMyanmar/database/postgres"
	esimHandler "EsimMyanmar/internal/api/esim/handler"
	esimService "EsimMyanmar/internal/api/esim/service"
	paymentHandler "EsimMyanmar/internal/api/payment/handler"
	paymentRepository "EsimMyanmar/internal/api/payment/repository"
	paymentService "EsimMyanmar/internal/api/payment/service"
	"EsimMyanmar/internal/middleware"
	"EsimMyanmar/pkg/mmqr"
	"EsimMyanmar/pkg/phone"
	"EsimMyanmar/pkg/redis"
	"EsimMyanmar/pkg/s3"
	"EsimMyanmar/pkg/transactease"
	"EsimMyanmar/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	cfg         AppConfig
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	gateway     *transactease.Gateway
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithAppConfig must come before the options that read settings from it.
func WithAppConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New(s.cfg.Database)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.cfg.JWTSecret)
		return nil
	}
}

// WithS3Client is a no-op when no bucket is configured; proof uploads are
// then rejected.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if !s.cfg.S3Enabled {
			return nil
		}
		client, err := s3.New(s.cfg.S3)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithTransactease() ServerOption {
	return func(s *Server) error {
		gateway, err := transactease.NewGateway(s.cfg.Transactease)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize Transactease gateway: %v", err)
			}
			return fmt.Errorf("failed to create Transactease gateway: %w", err)
		}
		s.gateway = gateway
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) paymentOptions() []paymentService.Option {
	var qrOpts []mmqr.ValidatorOption
	if s.cfg.StrictCRC {
		qrOpts = append(qrOpts, mmqr.WithStrictCRC())
	}

	opts := []paymentService.Option{
		paymentService.WithMMQR(mmqr.NewEncoder(mmqr.DefaultMerchant()), mmqr.NewValidator(qrOpts...)),
		paymentService.WithPhoneValidator(s.phoneValidator()),
		paymentService.WithRoutes(paymentService.Routes{
			PublicBaseURL: s.cfg.PublicBaseURL,
			CallbackURI:   s.cfg.CallbackURI,
			SuccessURI:    s.cfg.SuccessURI,
			CancelURI:     s.cfg.CancelURI,
		}),
	}

	if s.utils != nil {
		opts = append(opts, paymentService.WithUtils(s.utils))
	}
	if s.gateway != nil {
		var statusClient paymentService.IStatusClient
		if s.cfg.StatusLookupEnabled {
			statusClient = transactease.NewStatusClient(s.gateway, resty.New())
		}
		opts = append(opts, paymentService.WithGateway(s.gateway, statusClient, s.cfg.StatusAccessToken))
	}
	if s.redisServer != nil && s.cfg.NonceTTL > 0 {
		opts = append(opts, paymentService.WithNonceStore(s.redisServer, s.cfg.NonceTTL))
	}
	if s.s3Client != nil {
		opts = append(opts, paymentService.WithProofStorage(s.s3Client))
	}

	return opts
}

func (s *Server) phoneValidator() *phone.Validator {
	if s.cfg.LenientPhone {
		return phone.NewValidator(phone.WithLenient())
	}
	return phone.NewValidator()
}

func (s *Server) RegisterHandler() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	// Payment Domain
	paymentRepo := paymentRepository.New(s.db, s.log)
	paymentServices := paymentService.NewPaymentService(s.log, paymentRepo, s.paymentOptions()...)
	paymentHandlers := paymentHandler.New(s.log, s.validator, s.middleware, paymentServices)

	// eSIM Domain
	esimServices := esimService.NewEsimService(s.log, s.phoneValidator())
	esimHandlers := esimHandler.New(s.log, s.validator, s.middleware, esimServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, paymentHandlers, esimHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := s.cfg.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown drains in-flight requests and closes the database pool.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)
	if s.db != nil {
		if dbErr := s.db.Close(); dbErr != nil && err == nil {
			err = dbErr
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
