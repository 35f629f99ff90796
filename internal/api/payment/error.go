package payment

import (
	"EsimMyanmar/pkg/response"
	"net/http"
)

var (
	ErrOrderNotFound      = response.NewErrorWithReason(http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrOrderNotOwned      = response.NewErrorWithReason(http.StatusForbidden, "ORDER_NOT_OWNED", "order does not belong to user")
	ErrInvalidAmount      = response.NewErrorWithReason(http.StatusBadRequest, "INVALID_AMOUNT", "invalid amount")
	ErrNotEligible        = response.NewErrorWithReason(http.StatusBadRequest, "NOT_ELIGIBLE", "phone number is not eligible for eSIM")
	ErrInvalidQR          = response.NewErrorWithReason(http.StatusBadRequest, "INVALID_MMQR", "invalid MMQR string")
	ErrInvalidSignature   = response.NewErrorWithReason(http.StatusUnauthorized, "INVALID_SIGNATURE", "invalid signature")
	ErrMissingSignature   = response.NewErrorWithReason(http.StatusBadRequest, "MISSING_SIGNATURE", "missing signature headers")
	ErrInvalidAccessKey   = response.NewErrorWithReason(http.StatusUnauthorized, "INVALID_ACCESS_KEY", "invalid access key")
	ErrReplayedNonce      = response.NewErrorWithReason(http.StatusConflict, "REPLAYED_NONCE", "nonce already used")
	ErrInvalidPayload     = response.NewErrorWithReason(http.StatusBadRequest, "INVALID_PAYLOAD", "invalid callback payload")
	ErrGatewayUnavailable = response.NewErrorWithReason(http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "payment gateway unavailable")
	ErrProofStorageOff    = response.NewErrorWithReason(http.StatusServiceUnavailable, "PROOF_STORAGE_DISABLED", "payment proof upload is not configured")
	ErrInvalidProofFile   = response.NewErrorWithReason(http.StatusBadRequest, "INVALID_PROOF_FILE", "payment proof must be a jpg, png or webp image up to 5MB")
	ErrCreateOrder        = response.NewErrorWithReason(http.StatusInternalServerError, "CREATE_ORDER_FAILED", "failed to create order")
	ErrUpdateOrder        = response.NewErrorWithReason(http.StatusInternalServerError, "UPDATE_ORDER_FAILED", "failed to update order")
)
