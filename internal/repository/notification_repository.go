package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

type NotificationRepo struct{ db *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert appends a notification.
func (r *NotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	data, err := encodeObject(n.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notifications (notification_id, user_id, title, message, type, is_read, data, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, data, n.CreatedAt.UTC())
	return mapDuplicate(err)
}

// ListByUser returns the newest notifications first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT notification_id, user_id, title, message, type, is_read, data, created_at
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Notification, 0)
	for rows.Next() {
		var (
			n    model.Notification
			data []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &data, &n.CreatedAt); err != nil {
			return nil, err
		}
		if n.Data, err = decodeObject(data); err != nil {
			return nil, fmt.Errorf("notification %s data: %w", n.ID, err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread counts the user's unread notifications.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE", userID).Scan(&n)
	return n, err
}

// MarkRead flags one notification as read. ErrNotFound when the user owns
// no such notification; an already-read notification still matches.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE notification_id = ? AND user_id = ?", id, userID)
	return affectedOrNotFound(res, err)
}

// MarkAllRead flags every unread notification of the user and returns how
// many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
