package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	segmentio "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	orderdomain "github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/idempotency"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/tracing"
)

// Consumer drives payment processing from the order→payment hand-off topic.
// Deliveries are at-least-once; redeliveries are dropped through the
// idempotency store before any charge runs.
type Consumer struct {
	log     *slog.Logger
	reader  *segmentio.Reader
	idem    *idempotency.Store
	service *application.Service
	tracer  trace.Tracer
}

func NewConsumer(log *slog.Logger, reader *segmentio.Reader, idem *idempotency.Store, service *application.Service) *Consumer {
	return &Consumer{
		log:     log,
		reader:  reader,
		idem:    idem,
		service: service,
		tracer:  otel.Tracer("payments-consumer"),
	}
}

// Run consumes until the context is cancelled. Messages that cannot be
// decoded are logged and skipped; processing errors are logged and the
// message is still committed, the order stays AWAITING_PAYMENT and can be
// retried through the HTTP surface.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("commit failed", slog.Any("error", err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg segmentio.Message) {
	ctx = tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	ctx, span := c.tracer.Start(ctx, "payments.consume")
	defer span.End()

	key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
	seen, err := c.idem.Seen(ctx, key)
	if err != nil {
		c.log.Error("idempotency check failed", slog.Any("error", err))
		return
	}
	if seen {
		c.log.Info("duplicate delivery skipped", slog.String("key", key))
		return
	}

	var req orderdomain.PaymentRequested
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		c.log.Error("undecodable payment request dropped",
			slog.String("topic", msg.Topic), slog.Any("error", err))
		return
	}

	instructions := make([]application.Instruction, 0, len(req.Payments))
	for _, p := range req.Payments {
		instructions = append(instructions, application.Instruction{
			TypePaymentID: p.TypePaymentID,
			Amount:        p.Amount,
		})
	}

	result, err := c.service.ProcessPayment(ctx, req.OrderID, instructions)
	if err != nil {
		c.log.Error("payment processing failed",
			slog.String("order_id", req.OrderID.String()), slog.Any("error", err))
		return
	}
	c.log.Info("payment processed",
		slog.String("order_id", result.OrderID.String()),
		slog.String("status", result.Status),
		slog.Bool("success", result.Success),
	)
}
