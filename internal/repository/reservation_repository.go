package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// ReservationRepo stores reservations. Every read and update is scoped by
// the owning user id, so another user's reservation is indistinguishable
// from a missing one.
type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `reservation_id, user_id, vehicle_id, pickup_date, return_date, pickup_location,
	return_location, status, payment_status, total_price, extras, extras_price, driver_info, qr_code, created_at`

// Create inserts a new reservation.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	extras, err := encodeStrings(res.Extras)
	if err != nil {
		return err
	}
	driver, err := encodeObject(res.DriverInfo)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reservations (`+reservationColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.ID, res.UserID, res.VehicleID, res.PickupDate.UTC(), res.ReturnDate.UTC(), res.PickupLocation,
		res.ReturnLocation, res.Status, res.PaymentStatus, res.TotalPrice, extras, res.ExtrasPrice, driver,
		res.QRCode, res.CreatedAt.UTC())
	return mapDuplicate(err)
}

// GetForUser returns the reservation when it belongs to userID, otherwise
// ErrNotFound.
func (r *ReservationRepo) GetForUser(ctx context.Context, id, userID string) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE reservation_id = ? AND user_id = ? LIMIT 1",
		id, userID)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// ListByUser returns the user's reservations newest first, optionally
// filtered by exact status.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID, status string, limit int) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations WHERE user_id = ?"
	args := []any{userID}
	if status != "" {
		q += " AND status = ?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// UpdateStatus sets the lifecycle status of a user's reservation.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, userID, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status = ? WHERE reservation_id = ? AND user_id = ?",
		status, id, userID)
	return affectedOrNotFound(res, err)
}

// SetPayment sets both payment and lifecycle status in one statement.
func (r *ReservationRepo) SetPayment(ctx context.Context, id, userID, paymentStatus, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET payment_status = ?, status = ? WHERE reservation_id = ? AND user_id = ?",
		paymentStatus, status, id, userID)
	return affectedOrNotFound(res, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var (
		res            model.Reservation
		extras, driver []byte
	)
	if err := s.Scan(
		&res.ID, &res.UserID, &res.VehicleID, &res.PickupDate, &res.ReturnDate, &res.PickupLocation,
		&res.ReturnLocation, &res.Status, &res.PaymentStatus, &res.TotalPrice, &extras, &res.ExtrasPrice,
		&driver, &res.QRCode, &res.CreatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if res.Extras, err = decodeStrings(extras); err != nil {
		return nil, fmt.Errorf("reservation %s extras: %w", res.ID, err)
	}
	if res.DriverInfo, err = decodeObject(driver); err != nil {
		return nil, fmt.Errorf("reservation %s driver_info: %w", res.ID, err)
	}
	res.PickupDate = res.PickupDate.UTC()
	res.ReturnDate = res.ReturnDate.UTC()
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}

// affectedOrNotFound relies on clientFoundRows: RowsAffected counts
// matched rows, so an unchanged row still counts.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
