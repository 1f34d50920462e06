package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentInstruction is one requested payment leg supplied with an order.
type PaymentInstruction struct {
	TypePaymentID uuid.UUID       `json:"typePaymentId"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentRequested is the order→payment hand-off message on the log-based
// channel. The payments service consumer group picks it up and runs the
// payment state transition.
type PaymentRequested struct {
	OrderID     uuid.UUID            `json:"orderId"`
	Payments    []PaymentInstruction `json:"payments"`
	RequestedAt time.Time            `json:"requestedAt"`
}
