package events_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	name      string
	err       error
	published []events.Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, ev events.Event) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, ev)
	return nil
}

func TestPropagateReachesAllSinks(t *testing.T) {
	a := &recordingSink{name: "rabbitmq"}
	b := &recordingSink{name: "kafka"}
	p := events.NewPropagator(slog.Default(), a, b)

	ev := events.New(events.TypeOrderCreated, events.OrderCreated{OrderID: "o-1"})
	p.Propagate(context.Background(), ev)

	assert.Len(t, a.published, 1)
	assert.Len(t, b.published, 1)
	assert.Equal(t, events.TypeOrderCreated, a.published[0].Type)
}

func TestPropagateIsolatesSinkFailures(t *testing.T) {
	failing := &recordingSink{name: "rabbitmq", err: errors.New("connection reset")}
	healthy := &recordingSink{name: "kafka"}
	p := events.NewPropagator(slog.Default(), failing, healthy)

	p.Propagate(context.Background(), events.New(events.TypeOrderPaid, nil))

	assert.Empty(t, failing.published)
	assert.Len(t, healthy.published, 1, "second sink must still be attempted")
}

func TestPropagateNoSinks(t *testing.T) {
	p := events.NewPropagator(slog.Default())

	assert.NotPanics(t, func() {
		p.Propagate(context.Background(), events.New(events.TypeOrderFailed, nil))
	})
}
