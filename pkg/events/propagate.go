package events

import (
	"context"
	"log/slog"
)

// Sink is one transport for an event. Both broker clients adapt to it.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event Event) error
}

// Propagator fans one logical event out to every configured sink. Each
// publication is best-effort and isolated: a failing sink is logged and the
// remaining sinks are still attempted. Propagate never reports failure to the
// business caller.
type Propagator struct {
	log   *slog.Logger
	sinks []Sink
}

func NewPropagator(log *slog.Logger, sinks ...Sink) *Propagator {
	return &Propagator{log: log, sinks: sinks}
}

func (p *Propagator) Propagate(ctx context.Context, event Event) {
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			p.log.Error("event publish failed", "sink", sink.Name(), "type", event.Type, "err", err)
			continue
		}
		p.log.Info("event published", "sink", sink.Name(), "type", event.Type)
	}
}
