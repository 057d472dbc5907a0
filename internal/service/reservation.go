package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/repository"
	"github.com/iliyamo/fleetease-rental/internal/utils"
)

// MaxReservationResults caps a reservation listing.
const MaxReservationResults = 100

// ReservationService runs the reservation lifecycle. Notifications are a
// side effect: a failed notification is logged and never fails the call.
type ReservationService struct {
	reservations ReservationStore
	vehicles     VehicleStore
	notifier     Notifier
	log          *slog.Logger
	now          func() time.Time
}

type ReservationInput struct {
	VehicleID      string
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupLocation string
	ReturnLocation string
	Extras         []string
	DriverInfo     map[string]any
}

func NewReservationService(reservations ReservationStore, vehicles VehicleStore, notifier Notifier, log *slog.Logger) *ReservationService {
	if log == nil {
		log = slog.Default()
	}
	return &ReservationService{
		reservations: reservations,
		vehicles:     vehicles,
		notifier:     notifier,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source; used by tests.
func (s *ReservationService) SetClock(now func() time.Time) { s.now = now }

// Create books a vehicle for userID. No overlap check is made against other
// reservations of the same vehicle; only the availability flag counts.
func (s *ReservationService) Create(ctx context.Context, userID string, in ReservationInput) (*model.Reservation, error) {
	in.VehicleID = strings.TrimSpace(in.VehicleID)
	if in.VehicleID == "" {
		return nil, invalid("vehicle_id", "required")
	}
	if in.PickupDate.IsZero() || in.ReturnDate.IsZero() {
		return nil, invalid("dates", "pickup_date and return_date are required")
	}

	v, err := s.vehicles.Get(ctx, in.VehicleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	if !v.Available {
		return nil, ErrVehicleUnavailable
	}
	if !in.ReturnDate.After(in.PickupDate) {
		return nil, invalid("return_date", "must be after pickup_date")
	}

	extras := in.Extras
	if extras == nil {
		extras = []string{}
	}
	days := RentalDays(in.PickupDate, in.ReturnDate)
	extrasPrice, total := Quote(v.DailyPrice, days, extras)

	id := utils.NewID("res")
	res := &model.Reservation{
		ID:             id,
		UserID:         userID,
		VehicleID:      v.ID,
		PickupDate:     in.PickupDate.UTC(),
		ReturnDate:     in.ReturnDate.UTC(),
		PickupLocation: in.PickupLocation,
		ReturnLocation: in.ReturnLocation,
		Status:         model.StatusPending,
		TotalPrice:     total,
		Extras:         extras,
		ExtrasPrice:    extrasPrice,
		DriverInfo:     in.DriverInfo,
		PaymentStatus:  model.PaymentPending,
		CreatedAt:      s.now(),
		QRCode:         utils.QRCode(id),
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}

	s.notify(ctx, model.NotificationDraft{
		UserID:  userID,
		Title:   "Rezervasyon Oluşturuldu",
		Message: fmt.Sprintf("Rezervasyonunuz #%s başarıyla oluşturuldu. Onay bekleniyor.", id),
		Type:    model.NotificationReservation,
		Data:    map[string]any{"reservation_id": id},
	})
	return res, nil
}

// Get returns the caller's reservation.
func (s *ReservationService) Get(ctx context.Context, id, userID string) (*model.Reservation, error) {
	res, err := s.reservations.GetForUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// List returns the caller's reservations, newest first.
func (s *ReservationService) List(ctx context.Context, userID, status string) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID, strings.TrimSpace(status), MaxReservationResults)
}

// Cancel moves a pending or confirmed reservation to cancelled. Active and
// completed reservations cannot be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, id, userID string) error {
	res, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	if !res.Cancellable() {
		return ErrInvalidTransition
	}
	if err := s.reservations.UpdateStatus(ctx, id, userID, model.StatusCancelled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReservationNotFound
		}
		return err
	}

	s.notify(ctx, model.NotificationDraft{
		UserID:  userID,
		Title:   "Rezervasyon İptal Edildi",
		Message: fmt.Sprintf("Rezervasyonunuz #%s iptal edildi.", id),
		Type:    model.NotificationReservation,
		Data:    map[string]any{"reservation_id": id},
	})
	return nil
}

// Pay records a mocked payment: it always succeeds, marks the reservation
// paid and confirmed, and returns the new status.
func (s *ReservationService) Pay(ctx context.Context, id, userID string) (string, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return "", err
	}
	if err := s.reservations.SetPayment(ctx, id, userID, model.PaymentPaid, model.StatusConfirmed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrReservationNotFound
		}
		return "", err
	}

	s.notify(ctx, model.NotificationDraft{
		UserID:  userID,
		Title:   "Ödeme Başarılı",
		Message: fmt.Sprintf("Rezervasyonunuz #%s için ödeme alındı ve onaylandı.", id),
		Type:    model.NotificationPayment,
		Data:    map[string]any{"reservation_id": id},
	})
	return model.StatusConfirmed, nil
}

func (s *ReservationService) notify(ctx context.Context, d model.NotificationDraft) {
	if s.notifier == nil {
		return
	}
	if d.OccurredAt.IsZero() {
		d.OccurredAt = s.now()
	}
	if err := s.notifier.Notify(ctx, d); err != nil {
		s.log.Warn("notification emit failed", "user_id", d.UserID, "type", d.Type, "err", err)
	}
}
