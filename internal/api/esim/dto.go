package esim

import "EsimMyanmar/pkg/phone"

type ValidatePhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Provider    string `json:"provider" validate:"required,max=20"`
}

type ValidatePhoneResponse struct {
	Eligible          bool           `json:"eligible"`
	PhoneValid        bool           `json:"phone_valid"`
	Normalized        string         `json:"normalized"`
	Formatted         string         `json:"formatted,omitempty"`
	DetectedProvider  phone.Provider `json:"detected_provider"`
	RequestedProvider phone.Provider `json:"requested_provider"`
	ESIMSupported     bool           `json:"esim_supported"`
	Reasons           []string       `json:"reasons"`
}

type ProvidersResponse struct {
	Providers []phone.ProviderInfo `json:"providers"`
}
