package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types routed on both channels. RabbitMQ uses them as routing keys on
// the topic exchange; Kafka maps them to the orders.* / payments.* topics.
const (
	TypeOrderCreated     = "order.created"
	TypeOrderPaid        = "order.paid"
	TypeOrderFailed      = "order.failed"
	TypePaymentProcessed = "payment.processed"
)

// Event is the envelope placed on the wire. Data holds one of the typed
// payloads below; it stays `any` so the envelope can be decoded before the
// payload type is known.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func New(eventType string, data any) Event {
	return Event{Type: eventType, Timestamp: time.Now().UTC(), Data: data}
}

// Keyed payloads carry a partition key for log-based channels. Events keyed
// by order ID keep one order's stream in a single partition.
type Keyed interface {
	Key() string
}

// OrderCreated is the payload for TypeOrderCreated.
type OrderCreated struct {
	OrderID    string          `json:"orderId"`
	ClientID   string          `json:"clientId"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	ItemsCount int             `json:"itemsCount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// OrderStatusChanged is the payload for TypeOrderPaid and TypeOrderFailed.
type OrderStatusChanged struct {
	OrderID    string          `json:"orderId"`
	ClientID   string          `json:"clientId"`
	ClientName string          `json:"clientName"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// PaymentProcessed is the payload for TypePaymentProcessed. The result is
// opaque to the channels; consumers render it as-is.
type PaymentProcessed struct {
	OrderID     string          `json:"orderId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Success     bool            `json:"success"`
}

func (p OrderCreated) Key() string       { return p.OrderID }
func (p OrderStatusChanged) Key() string { return p.OrderID }
func (p PaymentProcessed) Key() string   { return p.OrderID }
