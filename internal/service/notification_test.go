package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/service"
	"github.com/iliyamo/fleetease-rental/internal/service/servicetest"
)

func TestNotificationService_EmitStoresAndPushes(t *testing.T) {
	store := servicetest.NewNotifications()
	push := &servicetest.RecordingPusher{}
	svc := service.NewNotificationService(store, push, nil)
	ctx := context.Background()

	n, err := svc.Emit(ctx, model.NotificationDraft{UserID: "u1", Title: "T", Message: "M", Type: model.NotificationSystem})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(n.ID, "notif_"))
	require.False(t, n.Read)
	require.Len(t, push.Pushed, 1)
	require.Equal(t, n.ID, push.Pushed[0].ID)

	_, err = svc.Emit(ctx, model.NotificationDraft{UserID: "u1", Type: "bogus"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Emit(ctx, model.NotificationDraft{Type: model.NotificationSystem})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	require.Len(t, store.All(), 1)
}

func TestNotificationService_EmitKeepsOccurredAt(t *testing.T) {
	store := servicetest.NewNotifications()
	svc := service.NewNotificationService(store, nil, nil)
	ctx := context.Background()

	happened := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	late, err := svc.Emit(ctx, model.NotificationDraft{UserID: "u1", Type: model.NotificationPayment, OccurredAt: happened})
	require.NoError(t, err)
	require.True(t, happened.Equal(late.CreatedAt))

	fresh, err := svc.Emit(ctx, model.NotificationDraft{UserID: "u1", Type: model.NotificationSystem})
	require.NoError(t, err)
	require.True(t, fresh.CreatedAt.After(happened))
}

func TestNotificationService_ReadFlow(t *testing.T) {
	store := servicetest.NewNotifications()
	svc := service.NewNotificationService(store, nil, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		n, err := svc.Emit(ctx, model.NotificationDraft{UserID: "u1", Title: "t", Type: model.NotificationReservation})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := svc.Emit(ctx, model.NotificationDraft{UserID: "u2", Title: "t", Type: model.NotificationCampaign})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	require.NoError(t, svc.MarkRead(ctx, ids[0], "u1"))
	require.NoError(t, svc.MarkRead(ctx, ids[0], "u1"))
	require.ErrorIs(t, svc.MarkRead(ctx, ids[1], "u2"), service.ErrNotificationNotFound)
	require.ErrorIs(t, svc.MarkRead(ctx, "notif_missing", "u1"), service.ErrNotificationNotFound)

	count, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	n, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	count, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, count)
	count, err = svc.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, ids[2], list[0].ID)
}

func TestNotificationService_ListCapped(t *testing.T) {
	store := servicetest.NewNotifications()
	svc := service.NewNotificationService(store, nil, nil)
	ctx := context.Background()
	for i := 0; i < service.MaxNotificationResults+5; i++ {
		require.NoError(t, svc.Notify(ctx, model.NotificationDraft{UserID: "u1", Type: model.NotificationSystem}))
	}
	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, service.MaxNotificationResults)
}
