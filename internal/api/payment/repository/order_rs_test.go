package paymentRepository

import (
	"database/sql"
	"testing"
	"time"

	"EsimMyanmar/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNullable(t *testing.T) {
	assert.Equal(t, sql.NullString{}, nullable(""))
	assert.Equal(t, sql.NullString{String: "REQ1", Valid: true}, nullable("REQ1"))
}

func TestPaymentOrderDB_ToEntity(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	row := PaymentOrderDB{
		ID:            sql.NullString{String: "ESIM-01", Valid: true},
		UserID:        sql.NullString{String: "user-1", Valid: true},
		PaymentMethod: sql.NullString{String: "mmqr", Valid: true},
		Amount:        decimal.NewFromInt(12000),
		Currency:      sql.NullString{String: "MMK", Valid: true},
		Status:        sql.NullString{String: "pending", Valid: true},
		Provider:      sql.NullString{String: "MPT", Valid: true},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	order := row.toEntity()
	assert.Equal(t, "ESIM-01", order.ID)
	assert.Equal(t, "", order.RequestID)
	assert.Equal(t, entity.PaymentMethodMMQR, order.Method)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(12000).Equal(order.Amount))
	assert.Equal(t, now, order.CreatedAt)
}
