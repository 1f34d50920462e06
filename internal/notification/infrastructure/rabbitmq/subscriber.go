package rabbitmq

import (
	"context"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/notification/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/rabbit"
)

const queueName = "notification-service"

var routingKeys = []string{
	events.TypeOrderCreated,
	events.TypeOrderPaid,
	events.TypeOrderFailed,
	events.TypePaymentProcessed,
}

// Subscribe binds the notification queue to every event the dispatcher can
// render. Handler errors nack with requeue, so transient delivery failures
// are retried by the broker.
func Subscribe(ctx context.Context, client *rabbit.Client, dispatcher *application.Dispatcher) error {
	return client.Subscribe(ctx, queueName, routingKeys, dispatcher.Dispatch)
}
