package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

type OrderRepository interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Order, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ClientInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ClientDirectory is the remote client store. Validate distinguishes
// "client absent" (false, nil) from "lookup failed" (error).
type ClientDirectory interface {
	Validate(ctx context.Context, clientID uuid.UUID) (bool, error)
	Get(ctx context.Context, clientID uuid.UUID) (ClientInfo, error)
}

type ProductInfo struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type ReservationLine struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// InventoryGateway is the remote inventory store. Reserve is atomic across
// the batch on the inventory side; the orchestrator never compensates.
type InventoryGateway interface {
	Product(ctx context.Context, productID uuid.UUID) (ProductInfo, error)
	Reserve(ctx context.Context, lines []ReservationLine) error
}

// PaymentRequester forwards supplied payments to the payment processor.
type PaymentRequester interface {
	RequestPayment(ctx context.Context, req domain.PaymentRequested) error
}

// EventPropagator fans status events out to every channel, best-effort.
type EventPropagator interface {
	Propagate(ctx context.Context, event events.Event)
}
