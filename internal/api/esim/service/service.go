package esimService

import (
	"EsimMyanmar/internal/api/esim"
	contextPkg "EsimMyanmar/pkg/context"
	"EsimMyanmar/pkg/phone"
	"context"
	"github.com/sirupsen/logrus"
	"strings"
)

type IEsimService interface {
	ValidatePhone(ctx context.Context, req esim.ValidatePhoneRequest) (*esim.ValidatePhoneResponse, error)
	Providers(ctx context.Context) *esim.ProvidersResponse
}

type esimService struct {
	log   *logrus.Logger
	phone *phone.Validator
}

func NewEsimService(log *logrus.Logger, validator *phone.Validator) IEsimService {
	if validator == nil {
		validator = phone.NewValidator()
	}
	return &esimService{
		log:   log,
		phone: validator,
	}
}

func (s *esimService) ValidatePhone(ctx context.Context, req esim.ValidatePhoneRequest) (*esim.ValidatePhoneResponse, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, esim.ErrEmptyPhoneNumber
	}

	eligibility := s.phone.IsEligible(req.PhoneNumber, req.Provider)
	result := s.phone.Validate(req.PhoneNumber)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"provider":   string(eligibility.RequestedProvider),
		"detected":   string(eligibility.DetectedProvider),
		"eligible":   eligibility.Eligible,
	}).Debug("Phone eligibility checked")

	return &esim.ValidatePhoneResponse{
		Eligible:          eligibility.Eligible,
		PhoneValid:        eligibility.PhoneValid,
		Normalized:        eligibility.Normalized,
		Formatted:         result.Formatted,
		DetectedProvider:  eligibility.DetectedProvider,
		RequestedProvider: eligibility.RequestedProvider,
		ESIMSupported:     s.phone.SupportsESIM(eligibility.RequestedProvider),
		Reasons:           eligibility.Reasons,
	}, nil
}

func (s *esimService) Providers(context.Context) *esim.ProvidersResponse {
	return &esim.ProvidersResponse{Providers: s.phone.Providers()}
}
