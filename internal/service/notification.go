package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/repository"
	"github.com/iliyamo/fleetease-rental/internal/utils"
)

// MaxNotificationResults caps a notification listing.
const MaxNotificationResults = 50

// NotificationService stores notifications and pushes new ones to live
// connections. It is also the synchronous Notifier.
type NotificationService struct {
	store NotificationStore
	push  Pusher
	log   *slog.Logger
	now   func() time.Time
}

func NewNotificationService(store NotificationStore, push Pusher, log *slog.Logger) *NotificationService {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationService{
		store: store,
		push:  push,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Emit appends an unread notification and pushes it to the owner.
func (s *NotificationService) Emit(ctx context.Context, d model.NotificationDraft) (*model.Notification, error) {
	if d.UserID == "" {
		return nil, invalid("user_id", "required")
	}
	if !model.ValidNotificationType(d.Type) {
		return nil, invalid("type", "unknown notification type")
	}
	created := s.now()
	if !d.OccurredAt.IsZero() {
		created = d.OccurredAt.UTC()
	}
	n := &model.Notification{
		ID:        utils.NewID("notif"),
		UserID:    d.UserID,
		Title:     d.Title,
		Message:   d.Message,
		Type:      d.Type,
		Read:      false,
		CreatedAt: created,
		Data:      d.Data,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}
	if s.push != nil {
		s.push.Push(n.UserID, n)
	}
	return n, nil
}

// Notify implements Notifier.
func (s *NotificationService) Notify(ctx context.Context, d model.NotificationDraft) error {
	_, err := s.Emit(ctx, d)
	return err
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.store.ListByUser(ctx, userID, MaxNotificationResults)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead flips one notification to read. Already-read is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	err := s.store.MarkRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
