package esim

import (
	"EsimMyanmar/pkg/response"
	"net/http"
)

var ErrEmptyPhoneNumber = response.NewErrorWithReason(http.StatusBadRequest, "INVALID_PHONE", "phone number is required")
