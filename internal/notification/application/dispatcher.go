package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

// Notification is a rendered message ready for a delivery channel.
type Notification struct {
	RecipientID string         `json:"recipientId"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data"`
}

// Sender delivers a rendered notification. The default implementation writes
// to the service log; email or push channels would satisfy the same
// interface.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type Dispatcher struct {
	log    *slog.Logger
	sender Sender
}

func NewDispatcher(log *slog.Logger, sender Sender) *Dispatcher {
	return &Dispatcher{log: log, sender: sender}
}

// Dispatch renders the event into a notification and hands it to the sender.
// Events with no mapping are logged and skipped, never failed, so unknown
// types do not poison the queue.
func (d *Dispatcher) Dispatch(ctx context.Context, event events.Event) error {
	n, ok, err := d.render(event)
	if err != nil {
		return err
	}
	if !ok {
		d.log.Warn("no notification mapping for event type", slog.String("type", event.Type))
		return nil
	}
	return d.sender.Send(ctx, n)
}

func (d *Dispatcher) render(event events.Event) (Notification, bool, error) {
	switch event.Type {
	case events.TypeOrderCreated:
		var p events.OrderCreated
		if err := decodeData(event, &p); err != nil {
			return Notification{}, false, err
		}
		return Notification{
			RecipientID: p.ClientID,
			Title:       "Order received",
			Message: fmt.Sprintf("Your order %s with %d items (total %s) was received and is awaiting payment.",
				p.OrderID, p.ItemsCount, p.Total),
			Data: map[string]any{"orderId": p.OrderID, "status": p.Status},
		}, true, nil

	case events.TypeOrderPaid:
		var p events.OrderStatusChanged
		if err := decodeData(event, &p); err != nil {
			return Notification{}, false, err
		}
		return Notification{
			RecipientID: p.ClientID,
			Title:       "Order paid",
			Message: fmt.Sprintf("Name: %s - Order %s for a total of %s has been PAID.",
				p.ClientName, p.OrderID, p.Total),
			Data: map[string]any{"orderId": p.OrderID, "status": p.Status},
		}, true, nil

	case events.TypeOrderFailed:
		var p events.OrderStatusChanged
		if err := decodeData(event, &p); err != nil {
			return Notification{}, false, err
		}
		return Notification{
			RecipientID: p.ClientID,
			Title:       "Order not completed",
			Message: fmt.Sprintf("Name: %s - Order %s was not completed. Current status: %s.",
				p.ClientName, p.OrderID, p.Status),
			Data: map[string]any{"orderId": p.OrderID, "status": p.Status},
		}, true, nil

	case events.TypePaymentProcessed:
		var p events.PaymentProcessed
		if err := decodeData(event, &p); err != nil {
			return Notification{}, false, err
		}
		outcome := "declined"
		if p.Success {
			outcome = "approved"
		}
		return Notification{
			Title: "Payment processed",
			Message: fmt.Sprintf("Payment of %s for order %s was %s. Order status: %s.",
				p.TotalAmount, p.OrderID, outcome, p.Status),
			Data: map[string]any{"orderId": p.OrderID, "success": p.Success},
		}, true, nil
	}

	return Notification{}, false, nil
}

// decodeData round-trips the envelope's data through JSON. Payloads arrive
// from the broker as generic maps, never as the typed structs.
func decodeData(event events.Event, v any) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	return nil
}
