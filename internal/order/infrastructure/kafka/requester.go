package kafka

import (
	"context"

	segmentio "github.com/segmentio/kafka-go"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/domain"
	pkgkafka "github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/kafka"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/tracing"
)

// PaymentRequester hands orders with payment instructions off to the
// payments service through its request topic.
type PaymentRequester struct {
	writer *segmentio.Writer
	topic  string
}

func NewPaymentRequester(writer *segmentio.Writer, topic string) *PaymentRequester {
	return &PaymentRequester{writer: writer, topic: topic}
}

func (p *PaymentRequester) RequestPayment(ctx context.Context, req domain.PaymentRequested) error {
	headers := tracing.InjectKafkaHeaders(ctx, nil)
	return pkgkafka.PublishJSON(ctx, p.writer, p.topic, req.OrderID.String(), req, headers)
}
