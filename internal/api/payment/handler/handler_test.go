package paymentHandler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"EsimMyanmar/internal/api/payment"
	"EsimMyanmar/internal/entity"
	"EsimMyanmar/internal/middleware"
	"EsimMyanmar/pkg/handlerUtil"
	jwtPkg "EsimMyanmar/pkg/jwt"
	"EsimMyanmar/pkg/transactease"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "jwt-test-secret"

type fakeService struct {
	userID   string
	generate payment.GenerateQRRequest
	callback payment.CallbackRequest
	redirect payment.RedirectRequest
	page     int
	limit    int
	status   string
	err      error
}

func (f *fakeService) GenerateMMQR(_ context.Context, userID string, req payment.GenerateQRRequest) (*payment.GenerateQRResponse, error) {
	f.userID, f.generate = userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &payment.GenerateQRResponse{OrderID: "ESIM-1", QRString: "000201"}, nil
}

func (f *fakeService) VerifyMMQR(_ context.Context, userID string, _ payment.VerifyQRRequest) (*payment.VerifyQRResponse, error) {
	f.userID = userID
	return &payment.VerifyQRResponse{}, f.err
}

func (f *fakeService) ParseMMQR(context.Context, string) (*payment.ParseQRResponse, error) {
	return &payment.ParseQRResponse{CRCValid: true}, f.err
}

func (f *fakeService) InitiatePayment(_ context.Context, userID string, _ payment.InitiatePaymentRequest) (*payment.InitiatePaymentResponse, error) {
	f.userID = userID
	return &payment.InitiatePaymentResponse{OrderID: "ESIM-1"}, f.err
}

func (f *fakeService) HandleCallback(_ context.Context, req payment.CallbackRequest) (*payment.CallbackResponse, error) {
	f.callback = req
	if f.err != nil {
		return nil, f.err
	}
	return &payment.CallbackResponse{Success: true, OrderStatus: entity.OrderStatusPaid}, nil
}

func (f *fakeService) HandleRedirect(_ context.Context, req payment.RedirectRequest) (*payment.RedirectResponse, error) {
	f.redirect = req
	if f.err != nil {
		return nil, f.err
	}
	return &payment.RedirectResponse{Success: req.Kind == payment.RedirectSuccess}, nil
}

func (f *fakeService) GetPaymentStatus(_ context.Context, userID, requestID string) (*payment.PaymentStatusResponse, error) {
	f.userID, f.status = userID, requestID
	return &payment.PaymentStatusResponse{RequestID: requestID}, f.err
}

func (f *fakeService) GetOrder(_ context.Context, userID, orderID string) (*payment.OrderResponse, error) {
	f.userID = userID
	return &payment.OrderResponse{OrderID: orderID}, f.err
}

func (f *fakeService) ListOrders(_ context.Context, userID string, page, limit int) (*payment.OrderHistoryResponse, error) {
	f.userID, f.page, f.limit = userID, page, limit
	return &payment.OrderHistoryResponse{}, f.err
}

func (f *fakeService) UploadPaymentProof(_ context.Context, userID, orderID string, _ *multipart.FileHeader) (*payment.ProofUploadResponse, error) {
	f.userID = userID
	return &payment.ProofUploadResponse{OrderID: orderID}, f.err
}

func newTestApp(t *testing.T, svc *fakeService) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	m := middleware.New(logger, testSecret)
	app.Use(m.NewRequestIDMiddleware())

	New(logger, validator.New(), m, svc).Start(app.Group("/api/v1"))
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	token, _, err := jwtPkg.Sign(testSecret, map[string]interface{}{"id": "user-1", "email": "aung@example.com"}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeError(t *testing.T, resp *http.Response) handlerUtil.ErrorResponse {
	t.Helper()
	var out handlerUtil.ErrorResponse
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, jsoniter.Unmarshal(body, &out))
	return out
}

func TestGenerateMMQR(t *testing.T) {
	body := `{"phone_number":"09791234567","provider":"MPT","amount":"12000"}`

	t.Run("requires token", func(t *testing.T) {
		app := newTestApp(t, &fakeService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mmqr/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{}
		app := newTestApp(t, svc)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mmqr/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "user-1", svc.userID)
		assert.Equal(t, "09791234567", svc.generate.PhoneNumber)
		require.True(t, svc.generate.Amount.Valid)
		assert.Equal(t, "12000", svc.generate.Amount.Decimal.String())
	})

	t.Run("validation", func(t *testing.T) {
		app := newTestApp(t, &fakeService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mmqr/generate", strings.NewReader(`{"provider":"MPT"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Code)
	})

	t.Run("domain error", func(t *testing.T) {
		app := newTestApp(t, &fakeService{err: payment.ErrNotEligible})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mmqr/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		out := decodeError(t, resp)
		assert.Equal(t, "NOT_ELIGIBLE", out.Code)
		assert.Equal(t, "phone number is not eligible for eSIM", out.Error)
	})
}

func TestParseMMQR_RequiresQuery(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/payments/mmqr/parse", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_MMQR", decodeError(t, resp).Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/payments/mmqr/parse?qr_string=000201", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPaymentCallback_PassesRawRequest(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	raw := `{"ResponseCode":"000",  "RequestID":"REQ1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/transactease/callback", strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(transactease.HeaderAccessKey, "ak-test")
	req.Header.Set(transactease.HeaderTimestamp, "2025-03-14T09:30:05")
	req.Header.Set(transactease.HeaderNonce, "nonce-1")
	req.Header.Set(transactease.HeaderSignature, "sig")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, raw, string(svc.callback.Payload))
	assert.Equal(t, "/api/v1/payments/transactease/callback", svc.callback.URI)
	assert.Equal(t, "ak-test", svc.callback.AccessKey)
	assert.Equal(t, "2025-03-14T09:30:05", svc.callback.Timestamp)
	assert.Equal(t, "nonce-1", svc.callback.Nonce)
	assert.Equal(t, "sig", svc.callback.Signature)
}

func TestPaymentCallback_InvalidSignature(t *testing.T) {
	app := newTestApp(t, &fakeService{err: payment.ErrInvalidSignature})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/payments/transactease/callback", strings.NewReader("{}")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_SIGNATURE", decodeError(t, resp).Code)
}

func TestPaymentRedirect_KeepsQueryOrder(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/payments/transactease/cancel?TransactionReferenceNumber=REF1&RequestID=REQ1&Signature=abc%2B%3D", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, payment.RedirectCancel, svc.redirect.Kind)
	assert.Equal(t, "/api/v1/payments/transactease/cancel", svc.redirect.URI)
	assert.Equal(t, transactease.Fields{
		{Name: "TransactionReferenceNumber", Value: "REF1"},
		{Name: "RequestID", Value: "REQ1"},
		{Name: "Signature", Value: "abc+="},
	}, svc.redirect.Params)
}

func TestOrderRoutes(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/orders?page=2&limit=5", nil)
	req.Header.Set("Authorization", bearer(t))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 5, svc.limit)

	svc.userID = ""
	req = httptest.NewRequest(http.MethodGet, "/api/v1/payments/transactease/status/REQ1", nil)
	req.Header.Set("Authorization", bearer(t))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "REQ1", svc.status)
	assert.Equal(t, "user-1", svc.userID)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/orders/ESIM-1/proof", nil)
	req.Header.Set("Authorization", bearer(t))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_FILE", decodeError(t, resp).Code)
}

func TestOrderRoutes_NotFound(t *testing.T) {
	app := newTestApp(t, &fakeService{err: payment.ErrOrderNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/orders/ESIM-404", nil)
	req.Header.Set("Authorization", bearer(t))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, resp).Code)
}
