package paymentService

import (
	"EsimMyanmar/internal/api/payment"
	paymentRepository "EsimMyanmar/internal/api/payment/repository"
	"EsimMyanmar/pkg/mmqr"
	"EsimMyanmar/pkg/phone"
	"EsimMyanmar/pkg/redis"
	"EsimMyanmar/pkg/s3"
	"EsimMyanmar/pkg/transactease"
	"EsimMyanmar/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
	"mime/multipart"
	"time"
)

type IPaymentService interface {
	GenerateMMQR(ctx context.Context, userID string, req payment.GenerateQRRequest) (*payment.GenerateQRResponse, error)
	VerifyMMQR(ctx context.Context, userID string, req payment.VerifyQRRequest) (*payment.VerifyQRResponse, error)
	ParseMMQR(ctx context.Context, qr string) (*payment.ParseQRResponse, error)

	InitiatePayment(ctx context.Context, userID string, req payment.InitiatePaymentRequest) (*payment.InitiatePaymentResponse, error)
	HandleCallback(ctx context.Context, req payment.CallbackRequest) (*payment.CallbackResponse, error)
	HandleRedirect(ctx context.Context, req payment.RedirectRequest) (*payment.RedirectResponse, error)
	GetPaymentStatus(ctx context.Context, userID, requestID string) (*payment.PaymentStatusResponse, error)

	GetOrder(ctx context.Context, userID, orderID string) (*payment.OrderResponse, error)
	ListOrders(ctx context.Context, userID string, page, limit int) (*payment.OrderHistoryResponse, error)
	UploadPaymentProof(ctx context.Context, userID, orderID string, file *multipart.FileHeader) (*payment.ProofUploadResponse, error)
}

// IStatusClient queries the gateway for the state of a hosted payment.
type IStatusClient interface {
	TransactionStatus(ctx context.Context, requestID, accessToken string) (*transactease.StatusResponse, error)
}

// Routes are the public paths the gateway calls back on. URIs are the exact
// paths the gateway signs; PublicBaseURL turns them into absolute redirect
// targets for the hosted form.
type Routes struct {
	PublicBaseURL string
	CallbackURI   string
	SuccessURI    string
	CancelURI     string
}

func (r Routes) absolute(uri string) string {
	if r.PublicBaseURL == "" || uri == "" {
		return ""
	}
	return r.PublicBaseURL + uri
}

type Option func(*paymentService)

func WithMMQR(encoder *mmqr.Encoder, validator *mmqr.Validator) Option {
	return func(s *paymentService) {
		s.encoder = encoder
		s.qrValidator = validator
	}
}

func WithPhoneValidator(v *phone.Validator) Option {
	return func(s *paymentService) {
		s.phone = v
	}
}

// WithGateway enables the hosted payment flow. statusClient may be nil when
// live status lookups are disabled.
func WithGateway(gateway *transactease.Gateway, statusClient IStatusClient, accessToken string) Option {
	return func(s *paymentService) {
		s.gateway = gateway
		s.statusClient = statusClient
		s.statusToken = accessToken
	}
}

// WithNonceStore rejects callbacks that reuse a nonce within ttl.
func WithNonceStore(store redis.IRedis, ttl time.Duration) Option {
	return func(s *paymentService) {
		s.nonces = store
		s.nonceTTL = ttl
	}
}

func WithProofStorage(storage s3.ItfS3) Option {
	return func(s *paymentService) {
		s.storage = storage
	}
}

func WithUtils(u utils.IUtils) Option {
	return func(s *paymentService) {
		s.utils = u
	}
}

func WithRoutes(routes Routes) Option {
	return func(s *paymentService) {
		s.routes = routes
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *paymentService) {
		s.now = now
	}
}

type paymentService struct {
	log             *logrus.Logger
	orderRepository paymentRepository.Repository

	encoder     *mmqr.Encoder
	qrValidator *mmqr.Validator
	phone       *phone.Validator

	gateway      *transactease.Gateway
	statusClient IStatusClient
	statusToken  string

	nonces   redis.IRedis
	nonceTTL time.Duration

	storage s3.ItfS3
	utils   utils.IUtils
	routes  Routes
	now     func() time.Time
}

func NewPaymentService(log *logrus.Logger, or paymentRepository.Repository, opts ...Option) IPaymentService {
	s := &paymentService{
		log:             log,
		orderRepository: or,
		encoder:         mmqr.NewEncoder(mmqr.DefaultMerchant()),
		qrValidator:     mmqr.NewValidator(),
		phone:           phone.NewValidator(),
		utils:           utils.New(),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
