package paymentRepository

import (
	"EsimMyanmar/internal/entity"
	"context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Order:    &orderRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

// OrderStore is the persistence surface for payment orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order entity.PaymentOrder) error
	GetOrderByID(ctx context.Context, id string) (entity.PaymentOrder, error)
	GetOrderByRequestID(ctx context.Context, requestID string) (entity.PaymentOrder, error)
	// LockOrderByRequestID selects the order FOR UPDATE. Only meaningful on a
	// transactional client.
	LockOrderByRequestID(ctx context.Context, requestID string) (entity.PaymentOrder, error)
	UpdateOrderStatus(ctx context.Context, id string, update entity.PaymentOrderUpdate) error
	UpdateProofURL(ctx context.Context, id string, proofURL string) error
	ListOrdersByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.PaymentOrder, int, error)
}

type Client struct {
	Order OrderStore

	Commit   func() error
	Rollback func() error
}

type orderRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
