package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

type AttemptRepository interface {
	SaveAll(ctx context.Context, attempts []domain.PaymentAttempt) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.PaymentAttempt, error)
}

type TypeRepository interface {
	Create(ctx context.Context, t domain.PaymentType) (domain.PaymentType, error)
	Get(ctx context.Context, id uuid.UUID) (domain.PaymentType, error)
	List(ctx context.Context) ([]domain.PaymentType, error)
}

// OrderItemSummary mirrors the orders service's item shape for receipts.
type OrderItemSummary struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderSnapshot is the orders service's view of an order at processing time.
type OrderSnapshot struct {
	ID       uuid.UUID          `json:"id"`
	ClientID uuid.UUID          `json:"clientId"`
	Status   string             `json:"status"`
	Total    decimal.Decimal    `json:"total"`
	Items    []OrderItemSummary `json:"items"`
}

// OrderGateway reads and transitions orders through the orders service.
type OrderGateway interface {
	Get(ctx context.Context, orderID uuid.UUID) (OrderSnapshot, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

// ClientDirectory resolves client display names for receipts. Lookups are
// best effort.
type ClientDirectory interface {
	Name(ctx context.Context, id uuid.UUID) (string, error)
}

// Gateway decides whether a single charge goes through. The default
// implementation is a random simulator; a real acquirer would sit behind the
// same interface.
type Gateway interface {
	Charge(ctx context.Context, orderID, typeID uuid.UUID, amount decimal.Decimal) bool
}

type EventPropagator interface {
	Propagate(ctx context.Context, event events.Event)
}
