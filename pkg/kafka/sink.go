package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/tracing"
)

// Topic names on the log-based channel. Routing keys on the other channel use
// the singular form; the streams are logically equivalent, not identical.
var topics = map[string]string{
	events.TypeOrderCreated:     "orders.created",
	events.TypeOrderPaid:        "orders.paid",
	events.TypeOrderFailed:      "orders.failed",
	events.TypePaymentProcessed: "payments.processed",
}

// Sink adapts a writer to the event propagator.
type Sink struct {
	writer *kafka.Writer
}

func NewSink(writer *kafka.Writer) *Sink {
	return &Sink{writer: writer}
}

func (s *Sink) Name() string { return "kafka" }

func (s *Sink) Publish(ctx context.Context, event events.Event) error {
	topic, ok := topics[event.Type]
	if !ok {
		return fmt.Errorf("no topic mapped for event type %q", event.Type)
	}

	var key string
	if keyed, ok := event.Data.(events.Keyed); ok {
		key = keyed.Key()
	}

	headers := tracing.InjectKafkaHeaders(ctx, []kafka.Header{
		{Key: "event_type", Value: []byte(event.Type)},
	})
	return PublishJSON(ctx, s.writer, topic, key, event, headers)
}
