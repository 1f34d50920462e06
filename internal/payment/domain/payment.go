package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "SUCCESS"
	AttemptFailed  AttemptStatus = "FAILED"
)

// PaymentType is a catalog entry (credit card, pix, boleto, ...).
type PaymentType struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentAttempt records one charge against an order. Attempts are kept even
// when the aggregate outcome cancels the order.
type PaymentAttempt struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"orderId"`
	TypePaymentID uuid.UUID       `json:"typePaymentId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        AttemptStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func NewAttempt(orderID, typeID uuid.UUID, amount decimal.Decimal, ok bool) PaymentAttempt {
	status := AttemptFailed
	if ok {
		status = AttemptSuccess
	}
	return PaymentAttempt{
		ID:            uuid.New(),
		OrderID:       orderID,
		TypePaymentID: typeID,
		Amount:        amount,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
}
