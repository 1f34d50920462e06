package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusPaymentFailed   Status = "PAYMENT_FAILED"
	StatusPaid            Status = "PAID"
	StatusCancelled       Status = "CANCELLED"
)

var validStatuses = map[Status]struct{}{
	StatusAwaitingPayment: {},
	StatusPaymentFailed:   {},
	StatusPaid:            {},
	StatusCancelled:       {},
}

func ToStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := validStatuses[status]; ok {
		return status, nil
	}
	return "", errors.New("invalid order status")
}

// OrderItem snapshots name and price at creation time. Later catalog price
// changes never alter an existing order.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  uuid.UUID       `json:"clientId"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items"`
	IsDeleted bool            `json:"isDeleted"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewOrder assembles an order from enriched items. Total is computed once,
// here, and never recomputed from catalog prices afterwards.
func NewOrder(clientID uuid.UUID, items []OrderItem) Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	now := time.Now().UTC()
	return Order{
		ID:        uuid.New(),
		ClientID:  clientID,
		Status:    StatusAwaitingPayment,
		Total:     total,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
