package paymentService

import (
	"EsimMyanmar/internal/api/payment"
	"EsimMyanmar/internal/entity"
	contextPkg "EsimMyanmar/pkg/context"
	"EsimMyanmar/pkg/phone"
	"context"
	"github.com/sirupsen/logrus"
	"mime/multipart"
	"strings"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	proofPrefix      = "payment-proofs"
)

func (s *paymentService) checkEligibility(ctx context.Context, phoneNumber, provider string) (phone.Eligibility, error) {
	eligibility := s.phone.IsEligible(phoneNumber, provider)
	if !eligibility.Eligible {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"provider":   provider,
			"reasons":    strings.Join(eligibility.Reasons, "; "),
		}).Warn("Phone number not eligible for eSIM")
		return eligibility, payment.ErrNotEligible
	}
	return eligibility, nil
}

func (s *paymentService) createOrder(ctx context.Context, order entity.PaymentOrder) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.orderRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return err
	}
	defer repo.Rollback()

	if err := repo.Order.CreateOrder(ctx, order); err != nil {
		return payment.ErrCreateOrder
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return payment.ErrCreateOrder
	}

	return nil
}

func (s *paymentService) ownedOrder(ctx context.Context, userID, orderID string) (entity.PaymentOrder, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.orderRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.PaymentOrder{}, err
	}

	order, err := repo.Order.GetOrderByID(ctx, orderID)
	if err != nil {
		return entity.PaymentOrder{}, err
	}

	if err := s.checkOwner(ctx, order, userID); err != nil {
		return entity.PaymentOrder{}, err
	}

	return order, nil
}

func (s *paymentService) checkOwner(ctx context.Context, order entity.PaymentOrder, userID string) error {
	if order.UserID == userID {
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"order_id":   order.ID,
		"user_id":    userID,
	}).Warn("Order accessed by another user")
	return payment.ErrOrderNotOwned
}

// presignProof swaps the stored object URL for a short-lived download link.
func (s *paymentService) presignProof(ctx context.Context, resp *payment.OrderResponse) {
	if s.storage == nil || resp.ProofURL == "" {
		return
	}

	url, err := s.storage.PresignUrl(resp.ProofURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"order_id":   resp.OrderID,
			"error":      err.Error(),
		}).Warn("Failed to presign payment proof")
		return
	}
	resp.ProofURL = url
}

func (s *paymentService) GetOrder(ctx context.Context, userID, orderID string) (*payment.OrderResponse, error) {
	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	resp := payment.NewOrderResponse(order)
	s.presignProof(ctx, &resp)

	return &resp, nil
}

func (s *paymentService) ListOrders(ctx context.Context, userID string, page, limit int) (*payment.OrderHistoryResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	repo, err := s.orderRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	orders, total, err := repo.Order.ListOrdersByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	resp := &payment.OrderHistoryResponse{
		Orders: make([]payment.OrderResponse, 0, len(orders)),
		Pagination: payment.Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, payment.NewOrderResponse(order))
	}

	return resp, nil
}

func (s *paymentService) UploadPaymentProof(ctx context.Context, userID, orderID string, file *multipart.FileHeader) (*payment.ProofUploadResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.storage == nil {
		return nil, payment.ErrProofStorageOff
	}

	if err := s.utils.ValidateImageFile(file); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid payment proof file")
		return nil, payment.ErrInvalidProofFile
	}

	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	location, err := s.storage.UploadFile(file, proofPrefix+"/"+order.ID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   order.ID,
			"error":      err.Error(),
		}).Error("Failed to upload payment proof")
		return nil, err
	}

	repo, err := s.orderRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	if err := repo.Order.UpdateProofURL(ctx, order.ID, location); err != nil {
		if delErr := s.storage.DeleteFile(location); delErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"location":   location,
				"error":      delErr.Error(),
			}).Error("Failed to delete orphaned payment proof")
		}
		return nil, payment.ErrUpdateOrder
	}

	resp := payment.NewOrderResponse(order)
	resp.ProofURL = location
	s.presignProof(ctx, &resp)

	return &payment.ProofUploadResponse{
		OrderID:  order.ID,
		ProofURL: resp.ProofURL,
	}, nil
}
