package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is published whenever an order starts or changes status.
type OrderEvent struct {
	OrderID    string          `json:"order_id"`
	Email      string          `json:"email"`
	Status     OrderStatus     `json:"status"`
	Payment    PaymentMethod   `json:"payment"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds the event for the current state of record.
func NewOrderEvent(record OrderRecord, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:    record.ID,
		Email:      record.Email,
		Status:     record.Status,
		Payment:    record.Payment,
		Total:      record.Total,
		OccurredAt: at,
	}
}
