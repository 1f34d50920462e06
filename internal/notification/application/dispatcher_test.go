package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/notification/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

type recordingSender struct {
	sent []application.Notification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n application.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func TestDispatchOrderCreated(t *testing.T) {
	sender := &recordingSender{}
	d := application.NewDispatcher(slog.Default(), sender)

	err := d.Dispatch(context.Background(), events.New(events.TypeOrderCreated, events.OrderCreated{
		OrderID:    "o-1",
		ClientID:   "c-1",
		Total:      decimal.RequireFromString("42.50"),
		Status:     "AWAITING_PAYMENT",
		ItemsCount: 3,
	}))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	n := sender.sent[0]
	assert.Equal(t, "c-1", n.RecipientID)
	assert.Equal(t, "Order received", n.Title)
	assert.Contains(t, n.Message, "3 items")
	assert.Contains(t, n.Message, "42.5")
	assert.Equal(t, "o-1", n.Data["orderId"])
}

func TestDispatchOrderPaidUsesClientName(t *testing.T) {
	sender := &recordingSender{}
	d := application.NewDispatcher(slog.Default(), sender)

	err := d.Dispatch(context.Background(), events.New(events.TypeOrderPaid, events.OrderStatusChanged{
		OrderID:    "o-1",
		ClientID:   "c-1",
		ClientName: "Maria Silva",
		Status:     "PAID",
		Total:      decimal.RequireFromString("42.50"),
	}))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Message, "Name: Maria Silva")
	assert.Contains(t, sender.sent[0].Message, "PAID")
}

func TestDispatchDecodesBrokerShapedData(t *testing.T) {
	// off the wire the payload is a generic map, not the typed struct
	sender := &recordingSender{}
	d := application.NewDispatcher(slog.Default(), sender)

	err := d.Dispatch(context.Background(), events.New(events.TypeOrderFailed, map[string]any{
		"orderId":    "o-9",
		"clientId":   "c-9",
		"clientName": "customer",
		"status":     "CANCELLED",
		"total":      "10.00",
	}))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "c-9", sender.sent[0].RecipientID)
	assert.Contains(t, sender.sent[0].Message, "CANCELLED")
}

func TestDispatchPaymentProcessed(t *testing.T) {
	sender := &recordingSender{}
	d := application.NewDispatcher(slog.Default(), sender)

	err := d.Dispatch(context.Background(), events.New(events.TypePaymentProcessed, events.PaymentProcessed{
		OrderID:     "o-1",
		Status:      "CANCELLED",
		TotalAmount: decimal.RequireFromString("42.50"),
		Success:     false,
	}))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Message, "declined")
}

func TestDispatchUnknownTypeIsSkipped(t *testing.T) {
	sender := &recordingSender{}
	d := application.NewDispatcher(slog.Default(), sender)

	err := d.Dispatch(context.Background(), events.New("order.shipped", map[string]any{"orderId": "o-1"}))
	require.NoError(t, err, "unknown types must not poison the queue")
	assert.Empty(t, sender.sent)
}

func TestDispatchSenderFailurePropagates(t *testing.T) {
	sender := &recordingSender{err: errors.New("channel down")}
	d := application.NewDispatcher(slog.Default(), sender)

	err := d.Dispatch(context.Background(), events.New(events.TypeOrderCreated, events.OrderCreated{
		OrderID: "o-1", ClientID: "c-1", Total: decimal.Zero, Status: "AWAITING_PAYMENT", ItemsCount: 1,
	}))
	assert.Error(t, err, "delivery failures bubble up so the message is redelivered")
}
