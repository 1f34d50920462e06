package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

const Exchange = "ecommerce.events"

var ErrNotConnected = errors.New("rabbitmq not connected")

// Handler processes one delivered event. A nil return acks the delivery,
// an error nacks it back onto the queue for redelivery.
type Handler func(ctx context.Context, event events.Event) error

type State string

const (
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// Client owns one connection to the topic exchange. Reconnection is handled
// by a supervised loop with capped exponential backoff; publishers see a
// transient ErrNotConnected while the loop catches up, never a hang.
type Client struct {
	url string
	log *slog.Logger

	mu    sync.RWMutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	state State
	subs  []subscription
}

type subscription struct {
	queue   string
	keys    []string
	handler Handler
}

func NewClient(url string, log *slog.Logger) *Client {
	return &Client{url: url, log: log, state: StateDisconnected}
}

// Run supervises the connection until ctx is cancelled. It dials, declares
// the exchange, re-establishes registered subscriptions and then blocks until
// the connection drops or the context ends.
func (c *Client) Run(ctx context.Context) {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		closed, err := c.connect(ctx)
		if err != nil {
			c.log.Error("rabbitmq connect failed", "err", err, "retry_in", backoff.String())
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		select {
		case <-ctx.Done():
			c.close()
			return
		case err := <-closed:
			c.log.Error("rabbitmq connection lost", "err", err)
			c.setDisconnected()
		}
	}
}

func (c *Client) connect(ctx context.Context) (chan *amqp.Error, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	c.state = StateConnected
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.log.Info("rabbitmq connected", "exchange", Exchange)

	for _, sub := range subs {
		if err := c.consume(ctx, sub); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	closed := make(chan *amqp.Error, 1)
	conn.NotifyClose(closed)
	return closed, nil
}

func (c *Client) setDisconnected() {
	c.mu.Lock()
	c.state = StateDisconnected
	c.mu.Unlock()
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.state = StateDisconnected
}

// Name implements events.Sink.
func (c *Client) Name() string { return "rabbitmq" }

// ConnectionState is observable for health endpoints.
func (c *Client) ConnectionState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Publish sends the event on the exchange, routed by its type, persistent.
func (c *Client) Publish(ctx context.Context, event events.Event) error {
	c.mu.RLock()
	ch := c.ch
	connected := c.state == StateConnected
	c.mu.RUnlock()

	if !connected || ch == nil {
		return ErrNotConnected
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, Exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Body:         body,
	})
}

// Subscribe binds a durable queue to the given routing keys. The handler runs
// per delivery; consumers registered before Run are established on connect
// and re-established after every reconnect.
func (c *Client) Subscribe(ctx context.Context, queue string, keys []string, handler Handler) error {
	sub := subscription{queue: queue, keys: keys, handler: handler}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected {
		return nil
	}
	return c.consume(ctx, sub)
}

func (c *Client) consume(ctx context.Context, sub subscription) error {
	c.mu.RLock()
	ch := c.ch
	c.mu.RUnlock()
	if ch == nil {
		return ErrNotConnected
	}

	q, err := ch.QueueDeclare(sub.queue, true, false, false, false, nil)
	if err != nil {
		return err
	}
	for _, key := range sub.keys {
		if err := ch.QueueBind(q.Name, key, Exchange, false, nil); err != nil {
			return err
		}
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				c.handleDelivery(ctx, sub, d)
			}
		}
	}()

	c.log.Info("rabbitmq consumer started", "queue", q.Name, "keys", sub.keys)
	return nil
}

func (c *Client) handleDelivery(ctx context.Context, sub subscription, d amqp.Delivery) {
	var event events.Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.log.Error("rabbitmq message unmarshal failed", "queue", sub.queue, "err", err)
		_ = d.Nack(false, false)
		return
	}

	if err := sub.handler(ctx, event); err != nil {
		c.log.Error("rabbitmq handler failed", "queue", sub.queue, "type", event.Type, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
