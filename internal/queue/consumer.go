package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// HandlerFunc stores one notification draft taken off the queue.
type HandlerFunc func(ctx context.Context, d model.NotificationDraft) error

// Consumer drains the notification queue into a HandlerFunc.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	handle   HandlerFunc
	log      *slog.Logger
}

func NewConsumer(url, queue string, prefetch int, handle HandlerFunc, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	if prefetch <= 0 {
		prefetch = 50
	}
	return &Consumer{url: url, queue: queue, prefetch: prefetch, handle: handle, log: log}
}

// Run connects to the broker and consumes until ctx is done, reconnecting
// with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("notification consumer: dial failed", "err", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("notification consumer: loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("notification consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info("notification consumer started", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				again := requeue(err, d.Redelivered)
				c.log.Error("notification consumer: handle message failed", "err", err, "requeue", again)
				_ = d.Nack(false, again)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	ev, err := decodeEvent(body)
	if err != nil {
		return err
	}
	return c.handle(ctx, ev.Draft())
}

// requeue decides whether a failed delivery goes back on the queue.
// Malformed events never do; other failures get one more attempt.
func requeue(err error, redelivered bool) bool {
	if errors.Is(err, errBadEvent) {
		return false
	}
	return !redelivered
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
