package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/service"
	"github.com/iliyamo/fleetease-rental/internal/service/servicetest"
)

type reservationFixture struct {
	svc          *service.ReservationService
	catalog      *servicetest.Catalog
	reservations *servicetest.Reservations
	notifier     *servicetest.RecordingNotifier
}

func newReservations(t *testing.T) *reservationFixture {
	t.Helper()
	f := &reservationFixture{
		catalog:      servicetest.NewCatalog(),
		reservations: servicetest.NewReservations(),
		notifier:     &servicetest.RecordingNotifier{},
	}
	f.catalog.AddVehicles(
		model.Vehicle{ID: "v001", Brand: "Toyota", DailyPrice: 850, Available: true},
		model.Vehicle{ID: "v002", Brand: "Volkswagen", DailyPrice: 1200, Available: false},
	)
	f.svc = service.NewReservationService(f.reservations, f.catalog, f.notifier, nil)
	f.svc.SetClock(func() time.Time { return t0 })
	return f
}

func threeDays(vehicleID string, extras ...string) service.ReservationInput {
	return service.ReservationInput{
		VehicleID:      vehicleID,
		PickupDate:     time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		ReturnDate:     time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC),
		PickupLocation: "loc001",
		ReturnLocation: "loc001",
		Extras:         extras,
	}
}

func TestCreateReservation_PricesAndNotifies(t *testing.T) {
	f := newReservations(t)
	res, err := f.svc.Create(context.Background(), "user_a", threeDays("v001", "gps", "tam_kasko"))
	require.NoError(t, err)

	require.Equal(t, 825.0, res.ExtrasPrice)
	require.Equal(t, 3375.0, res.TotalPrice)
	require.Equal(t, model.StatusPending, res.Status)
	require.Equal(t, model.PaymentPending, res.PaymentStatus)
	require.True(t, strings.HasPrefix(res.ID, "res_"))
	require.Equal(t, "FLEETEASE-"+strings.ToUpper(res.ID), res.QRCode)
	require.Equal(t, t0, res.CreatedAt)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "user_a", sent[0].UserID)
	require.Equal(t, model.NotificationReservation, sent[0].Type)
	require.Equal(t, "Rezervasyon Oluşturuldu", sent[0].Title)
	require.Contains(t, sent[0].Message, res.ID)
	require.Equal(t, res.ID, sent[0].Data["reservation_id"])
}

func TestCreateReservation_ExtrasPerDay(t *testing.T) {
	f := newReservations(t)
	res, err := f.svc.Create(context.Background(), "user_a", threeDays("v001", "ek_surucu", "bebek_koltugu"))
	require.NoError(t, err)
	require.Equal(t, 750.0, res.ExtrasPrice)
	require.Equal(t, 3300.0, res.TotalPrice)

	res, err = f.svc.Create(context.Background(), "user_a", threeDays("v001", "unknown_extra"))
	require.NoError(t, err)
	require.Equal(t, 0.0, res.ExtrasPrice)
	require.Equal(t, 2550.0, res.TotalPrice)
	require.Equal(t, []string{"unknown_extra"}, res.Extras)
}

func TestCreateReservation_ShortRentalBillsOneDay(t *testing.T) {
	f := newReservations(t)
	in := threeDays("v001")
	in.ReturnDate = in.PickupDate.Add(5 * time.Hour)
	res, err := f.svc.Create(context.Background(), "user_a", in)
	require.NoError(t, err)
	require.Equal(t, 850.0, res.TotalPrice)
	require.Equal(t, []string{}, res.Extras)
}

func TestCreateReservation_Rejections(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "user_a", threeDays("v999"))
	require.ErrorIs(t, err, service.ErrVehicleNotFound)

	_, err = f.svc.Create(ctx, "user_a", threeDays("v002"))
	require.ErrorIs(t, err, service.ErrVehicleUnavailable)

	in := threeDays("v001")
	in.ReturnDate = in.PickupDate
	_, err = f.svc.Create(ctx, "user_a", in)
	require.ErrorIs(t, err, service.ErrInvalidInput)

	in.ReturnDate = in.PickupDate.Add(-time.Hour)
	_, err = f.svc.Create(ctx, "user_a", in)
	require.ErrorIs(t, err, service.ErrInvalidInput)

	list, err := f.svc.List(ctx, "user_a", "")
	require.NoError(t, err)
	require.Empty(t, list)
	require.Empty(t, f.notifier.Sent())
}

func TestCreateReservation_NotificationFailureIsSwallowed(t *testing.T) {
	f := newReservations(t)
	f.notifier.Err = errors.New("broker down")

	res, err := f.svc.Create(context.Background(), "user_a", threeDays("v001"))
	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), res.ID, "user_a")
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), res.ID, "user_a"))
}

func TestReservation_OwnershipScoping(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()
	res, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, res.ID, "user_b")
	require.ErrorIs(t, err, service.ErrReservationNotFound)
	require.ErrorIs(t, f.svc.Cancel(ctx, res.ID, "user_b"), service.ErrReservationNotFound)
	_, err = f.svc.Pay(ctx, res.ID, "user_b")
	require.ErrorIs(t, err, service.ErrReservationNotFound)

	list, err := f.svc.List(ctx, "user_b", "")
	require.NoError(t, err)
	require.Empty(t, list)

	got, err := f.svc.Get(ctx, res.ID, "user_a")
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, got.Status)
}

func TestReservation_PayThenCancel(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()
	res, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)

	status, err := f.svc.Pay(ctx, res.ID, "user_a")
	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, status)

	got, err := f.svc.Get(ctx, res.ID, "user_a")
	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, got.Status)
	require.Equal(t, model.PaymentPaid, got.PaymentStatus)

	require.NoError(t, f.svc.Cancel(ctx, res.ID, "user_a"))
	got, err = f.svc.Get(ctx, res.ID, "user_a")
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, got.Status)
	require.Equal(t, model.PaymentPaid, got.PaymentStatus)

	// cancelling again is accepted
	require.NoError(t, f.svc.Cancel(ctx, res.ID, "user_a"))

	sent := f.notifier.Sent()
	require.Len(t, sent, 4)
	require.Equal(t, model.NotificationPayment, sent[1].Type)
	require.Equal(t, "Ödeme Başarılı", sent[1].Title)
	require.Equal(t, "Rezervasyon İptal Edildi", sent[2].Title)
}

func TestReservation_CancelRejectedWhenActiveOrCompleted(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()
	for _, st := range []string{model.StatusActive, model.StatusCompleted} {
		res, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
		require.NoError(t, err)
		f.reservations.ForceStatus(res.ID, st)

		require.ErrorIs(t, f.svc.Cancel(ctx, res.ID, "user_a"), service.ErrInvalidTransition)
		got, err := f.svc.Get(ctx, res.ID, "user_a")
		require.NoError(t, err)
		require.Equal(t, st, got.Status)
	}
}

func TestReservation_ListFiltersByStatusNewestFirst(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()
	now := t0
	f.svc.SetClock(func() time.Time { return now })

	first, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)
	now = now.Add(time.Minute)
	second, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, first.ID, "user_a"))

	all, err := f.svc.List(ctx, "user_a", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)
	require.Equal(t, first.ID, all[1].ID)

	cancelled, err := f.svc.List(ctx, "user_a", model.StatusCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	require.Equal(t, first.ID, cancelled[0].ID)
}

func requirePaid(t *testing.T, f *reservationFixture, id string) {
	t.Helper()
	got, err := f.svc.Get(context.Background(), id, "user_a")
	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, got.Status)
	require.Equal(t, model.PaymentPaid, got.PaymentStatus)
}

func TestReservation_PayTwice(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()
	res, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		status, err := f.svc.Pay(ctx, res.ID, "user_a")
		require.NoError(t, err)
		require.Equal(t, model.StatusConfirmed, status)
	}
	requirePaid(t, f, res.ID)
	require.Len(t, f.notifier.Sent(), 3)
}

func TestReservation_PayConfirmsFromAnyState(t *testing.T) {
	f := newReservations(t)
	ctx := context.Background()

	completed, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)
	f.reservations.ForceStatus(completed.ID, model.StatusCompleted)

	cancelled, err := f.svc.Create(ctx, "user_a", threeDays("v001"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, cancelled.ID, "user_a"))

	for _, id := range []string{completed.ID, cancelled.ID} {
		status, err := f.svc.Pay(ctx, id, "user_a")
		require.NoError(t, err)
		require.Equal(t, model.StatusConfirmed, status)
		requirePaid(t, f, id)
	}
}
