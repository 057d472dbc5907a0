package model

import "time"

// Notification types.
const (
	NotificationReservation = "reservation"
	NotificationCampaign    = "campaign"
	NotificationSystem      = "system"
	NotificationPayment     = "payment"
)

// Notification is an append-only message for a user. Only Read changes
// after creation.
type Notification struct {
	ID        string         `json:"notification_id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
	Data      map[string]any `json:"data"`
}

// NotificationDraft is what lifecycle code hands to a notifier; id and read
// flag are assigned when it is stored. OccurredAt, when set, becomes the
// notification's created_at.
type NotificationDraft struct {
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Type       string         `json:"type"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"-"`
}

// ValidNotificationType reports whether t is one of the known types.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationReservation, NotificationCampaign, NotificationSystem, NotificationPayment:
		return true
	}
	return false
}
