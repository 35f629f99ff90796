package middleware

import (
	"EsimMyanmar/internal/entity"
	jwtPkg "EsimMyanmar/pkg/jwt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "jwt-test-secret"

func newTestApp(opts ...Option) (*fiber.App, Middleware) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := New(logger, testSecret, opts...)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewLoggingMiddleware())
	return app, m
}

func TestRequestID(t *testing.T) {
	app, m := newTestApp()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Len(t, string(body), 26)
	assert.Equal(t, string(body), resp.Header.Get(RequestIDKey))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDKey, "client-id-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "client-id-1", string(body))
}

func TestTokenMiddleware(t *testing.T) {
	app, m := newTestApp()
	app.Get("/me", m.NewTokenMiddleware, func(c *fiber.Ctx) error {
		user, err := jwtPkg.GetUserLoginData(c)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})

	token, _, err := jwtPkg.Sign(testSecret, map[string]interface{}{"id": "u-1", "email": "a@b.mm", "username": "aung"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user entity.UserLoginData
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &user))
	assert.Equal(t, "u-1", user.ID)

	for _, header := range []string{"", "Token " + token, "Bearer ", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestRateLimiter(t *testing.T) {
	app, m := newTestApp(WithRateLimit(0.001, 2))
	app.Get("/", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody(fiber.MIMEApplicationJSON, []byte(`{"amount":120000,"Signature":"abc","access_key":"k","qr_string":"000201"}`))

	assert.Contains(t, out, `"Signature":"[SECRET]"`)
	assert.Contains(t, out, `"access_key":"[SECRET]"`)
	assert.Contains(t, out, `"qr_string":"000201"`)
	assert.Contains(t, out, `"amount":120000`)

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody(fiber.MIMEApplicationForm, []byte("a=b")))
	assert.Equal(t, "[multipart body]", sanitizeRequestBody(fiber.MIMEMultipartForm+"; boundary=x", []byte("--x")))
}
