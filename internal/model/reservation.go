package model

import "time"

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Reservation is a booking of one vehicle by one user for a date range.
// Reservations are never deleted; cancellation is a status.
type Reservation struct {
	ID             string         `json:"reservation_id"`
	UserID         string         `json:"user_id"`
	VehicleID      string         `json:"vehicle_id"`
	PickupDate     time.Time      `json:"pickup_date"`
	ReturnDate     time.Time      `json:"return_date"`
	PickupLocation string         `json:"pickup_location"`
	ReturnLocation string         `json:"return_location"`
	Status         string         `json:"status"`
	TotalPrice     float64        `json:"total_price"`
	Extras         []string       `json:"extras"`
	ExtrasPrice    float64        `json:"extras_price"`
	DriverInfo     map[string]any `json:"driver_info"`
	PaymentStatus  string         `json:"payment_status"`
	CreatedAt      time.Time      `json:"created_at"`
	QRCode         string         `json:"qr_code"`
}

// Cancellable reports whether the reservation may move to cancelled.
// Cancelling an already cancelled reservation is allowed and changes nothing.
func (r *Reservation) Cancellable() bool {
	switch r.Status {
	case StatusActive, StatusCompleted:
		return false
	}
	return true
}
