package paymentRepository

import (
	"EsimMyanmar/internal/api/payment"
	"EsimMyanmar/internal/entity"
	contextPkg "EsimMyanmar/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"time"
)

type PaymentOrderDB struct {
	ID                   sql.NullString  `db:"id"`
	UserID               sql.NullString  `db:"user_id"`
	RequestID            sql.NullString  `db:"request_id"`
	PaymentMethod        sql.NullString  `db:"payment_method"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             sql.NullString  `db:"currency"`
	Status               sql.NullString  `db:"status"`
	Provider             sql.NullString  `db:"provider"`
	PhoneNumber          sql.NullString  `db:"phone_number"`
	CustomerName         sql.NullString  `db:"customer_name"`
	CustomerEmail        sql.NullString  `db:"customer_email"`
	QRString             sql.NullString  `db:"qr_string"`
	ResponseCode         sql.NullString  `db:"response_code"`
	TransactionID        sql.NullString  `db:"transaction_id"`
	TransactionReference sql.NullString  `db:"transaction_reference"`
	ProofURL             sql.NullString  `db:"proof_url"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

func (o PaymentOrderDB) toEntity() entity.PaymentOrder {
	return entity.PaymentOrder{
		ID:                   o.ID.String,
		UserID:               o.UserID.String,
		RequestID:            o.RequestID.String,
		Method:               entity.PaymentMethod(o.PaymentMethod.String),
		Amount:               o.Amount,
		Currency:             o.Currency.String,
		Status:               entity.OrderStatus(o.Status.String),
		Provider:             o.Provider.String,
		PhoneNumber:          o.PhoneNumber.String,
		CustomerName:         o.CustomerName.String,
		CustomerEmail:        o.CustomerEmail.String,
		QRString:             o.QRString.String,
		ResponseCode:         o.ResponseCode.String,
		TransactionID:        o.TransactionID.String,
		TransactionReference: o.TransactionReference.String,
		ProofURL:             o.ProofURL.String,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// nullable stores "" as NULL so the unique request_id index only covers
// orders that reached the gateway.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *orderRepository) bind(ctx context.Context, op, query string, argsKV map[string]interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.Named(query, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Errorf("%s named query preparation err", op)
		return "", nil, err
	}

	return r.q.Rebind(query), args, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order entity.PaymentOrder) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":             order.ID,
		"user_id":        order.UserID,
		"request_id":     nullable(order.RequestID),
		"payment_method": string(order.Method),
		"amount":         order.Amount,
		"currency":       order.Currency,
		"status":         string(order.Status),
		"provider":       order.Provider,
		"phone_number":   order.PhoneNumber,
		"customer_name":  order.CustomerName,
		"customer_email": order.CustomerEmail,
		"qr_string":      order.QRString,
		"created_at":     order.CreatedAt,
		"updated_at":     order.UpdatedAt,
	}

	query, args, err := r.bind(ctx, "CreateOrder", queryCreateOrder, argsKV)
	if err != nil {
		return err
	}

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   order.ID,
			"error":      err.Error(),
		}).Error("Database error when creating payment order")
		return err
	}

	return nil
}

func (r *orderRepository) getOne(ctx context.Context, op, query string, argsKV map[string]interface{}) (entity.PaymentOrder, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row PaymentOrderDB

	query, args, err := r.bind(ctx, op, query, argsKV)
	if err != nil {
		return entity.PaymentOrder{}, err
	}

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warnf("%s no rows found", op)
			return entity.PaymentOrder{}, payment.ErrOrderNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s execution err", op)
		return entity.PaymentOrder{}, err
	}

	return row.toEntity(), nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (entity.PaymentOrder, error) {
	return r.getOne(ctx, "GetOrderByID", queryGetOrderByID, map[string]interface{}{"id": id})
}

func (r *orderRepository) GetOrderByRequestID(ctx context.Context, requestID string) (entity.PaymentOrder, error) {
	return r.getOne(ctx, "GetOrderByRequestID", queryGetOrderByRequestID, map[string]interface{}{"request_id": requestID})
}

func (r *orderRepository) LockOrderByRequestID(ctx context.Context, requestID string) (entity.PaymentOrder, error) {
	return r.getOne(ctx, "LockOrderByRequestID", queryLockOrderByRequestID, map[string]interface{}{"request_id": requestID})
}

func (r *orderRepository) exec(ctx context.Context, op, query string, argsKV map[string]interface{}) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := r.bind(ctx, op, query, argsKV)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s execution err", op)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Errorf("%s rows affected err", op)
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warnf("%s no rows affected", op)
		return payment.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id string, update entity.PaymentOrderUpdate) error {
	return r.exec(ctx, "UpdateOrderStatus", queryUpdateOrderStatus, map[string]interface{}{
		"id":                    id,
		"status":                string(update.Status),
		"response_code":         update.ResponseCode,
		"transaction_id":        update.TransactionID,
		"transaction_reference": update.TransactionReference,
		"updated_at":            time.Now(),
	})
}

func (r *orderRepository) UpdateProofURL(ctx context.Context, id string, proofURL string) error {
	return r.exec(ctx, "UpdateProofURL", queryUpdateProofURL, map[string]interface{}{
		"id":         id,
		"proof_url":  proofURL,
		"updated_at": time.Now(),
	})
}

func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.PaymentOrder, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := r.bind(ctx, "ListOrdersByUserID", queryListOrdersByUserID, map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	})
	if err != nil {
		return nil, 0, err
	}

	var rows []PaymentOrderDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListOrdersByUserID execution err")
		return nil, 0, err
	}

	countQuery, countArgs, err := r.bind(ctx, "CountOrdersByUserID", queryCountOrdersByUserID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.q.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountOrdersByUserID execution err")
		return nil, 0, err
	}

	orders := make([]entity.PaymentOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}

	return orders, total, nil
}
