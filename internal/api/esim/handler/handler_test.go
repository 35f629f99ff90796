package esimHandler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"EsimMyanmar/internal/api/esim"
	esimService "EsimMyanmar/internal/api/esim/service"
	"EsimMyanmar/internal/middleware"
	"EsimMyanmar/pkg/phone"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	m := middleware.New(logger, "jwt-test-secret")
	app.Use(m.NewRequestIDMiddleware())

	New(logger, validator.New(), m, esimService.NewEsimService(logger, phone.NewValidator())).Start(app.Group("/api/v1"))
	return app
}

func TestValidatePhone(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/esim/validate-phone",
		strings.NewReader(`{"phone_number":"09441234567","provider":"ATOM"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out esim.ValidatePhoneResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &out))
	assert.True(t, out.Eligible)
	assert.Equal(t, phone.ATOM, out.DetectedProvider)
}

func TestValidatePhone_Validation(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/esim/validate-phone", strings.NewReader(`{"provider":"ATOM"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProviders(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/api/v1/esim/providers", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out esim.ProvidersResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &out))
	assert.Len(t, out.Providers, 4)
}
