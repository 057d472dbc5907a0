// Package queue carries lifecycle notifications over RabbitMQ: a publisher
// used by the HTTP path and a consumer that stores and pushes them.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// NotificationEvent is the wire payload on the notification queue. The
// consumer assigns the stored id; OccurredAt becomes its created_at.
type NotificationEvent struct {
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Type       string         `json:"type"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt string         `json:"occurred_at"`
}

var errBadEvent = errors.New("malformed notification event")

// newEvent stamps the event with d.OccurredAt, or at when the draft has none.
func newEvent(d model.NotificationDraft, at time.Time) NotificationEvent {
	if !d.OccurredAt.IsZero() {
		at = d.OccurredAt
	}
	return NotificationEvent{
		UserID:     d.UserID,
		Title:      d.Title,
		Message:    d.Message,
		Type:       d.Type,
		Data:       d.Data,
		OccurredAt: at.UTC().Format(time.RFC3339Nano),
	}
}

// Draft converts the event back into a notification draft. An unparsable
// timestamp leaves OccurredAt zero, so the consumer stamps its own.
func (e NotificationEvent) Draft() model.NotificationDraft {
	at, _ := time.Parse(time.RFC3339Nano, e.OccurredAt)
	return model.NotificationDraft{
		UserID:     e.UserID,
		Title:      e.Title,
		Message:    e.Message,
		Type:       e.Type,
		Data:       e.Data,
		OccurredAt: at.UTC(),
	}
}

func decodeEvent(body []byte) (NotificationEvent, error) {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", errBadEvent, err)
	}
	if ev.UserID == "" || !model.ValidNotificationType(ev.Type) {
		return ev, fmt.Errorf("%w: user_id=%q type=%q", errBadEvent, ev.UserID, ev.Type)
	}
	return ev, nil
}
