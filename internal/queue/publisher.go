package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// Notifier is the delivery contract shared with the service layer.
type Notifier interface {
	Notify(ctx context.Context, d model.NotificationDraft) error
}

// Publisher sends notification events to a durable queue. The broker
// connection is opened on first use and reopened after it drops.
type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string, timeout time.Duration, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Publisher{url: url, queue: queue, timeout: timeout, log: log}
}

// Publish sends one persistent message with the draft.
func (p *Publisher) Publish(ctx context.Context, d model.NotificationDraft) error {
	body, err := json.Marshal(newEvent(d, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// channel returns an open channel, dialing if needed. Caller holds mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.log.Info("notification publisher connected", "queue", p.queue)
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// EventPublisher is satisfied by *Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, d model.NotificationDraft) error
}

// QueueNotifier publishes drafts and falls back to direct delivery when the
// broker cannot take them, so no notification is lost to an outage.
type QueueNotifier struct {
	pub      EventPublisher
	fallback Notifier
	log      *slog.Logger
}

func NewQueueNotifier(pub EventPublisher, fallback Notifier, log *slog.Logger) *QueueNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &QueueNotifier{pub: pub, fallback: fallback, log: log}
}

func (n *QueueNotifier) Notify(ctx context.Context, d model.NotificationDraft) error {
	err := n.pub.Publish(ctx, d)
	if err == nil {
		return nil
	}
	n.log.Warn("notification publish failed, delivering directly", "user_id", d.UserID, "err", err)
	if n.fallback == nil {
		return err
	}
	return n.fallback.Notify(ctx, d)
}
