package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending       BookingStatus = "pending"
	BookingConfirmed     BookingStatus = "confirmed"
	BookingCancelled     BookingStatus = "cancelled"
	BookingExpired       BookingStatus = "expired"
	BookingRefunded      BookingStatus = "refunded"
	BookingUsed          BookingStatus = "used"
	BookingNoShow        BookingStatus = "no_show"
	BookingRefundPending BookingStatus = "refund_pending"
	BookingRejected      BookingStatus = "rejected"
)

// bookingTransitions defines the allowed status transitions for bookings
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:       {BookingConfirmed, BookingCancelled, BookingExpired, BookingRejected},
	BookingConfirmed:     {BookingCancelled, BookingUsed, BookingNoShow, BookingRefundPending},
	BookingCancelled:     {BookingRefunded, BookingRefundPending},
	BookingRefundPending: {BookingRefunded},
	BookingExpired:       {},
	BookingRefunded:      {},
	BookingUsed:          {},
	BookingNoShow:        {},
	BookingRejected:      {},
}

// CanTransitionTo returns true if the status may change to newStatus
func (s BookingStatus) CanTransitionTo(newStatus BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// IsActive returns true if the booking still holds a live claim on the event
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

// IsFinal returns true if no further transitions are permitted
func (s BookingStatus) IsFinal() bool {
	return len(bookingTransitions[s]) == 0
}

// OccupiesInventory returns true if the booking's tickets are still deducted
// from event availability. Cancelled, rejected and expired bookings have had
// their tickets released; refund pending implies a prior cancellation.
func (s BookingStatus) OccupiesInventory() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingUsed || s == BookingNoShow
}

// CountsAsSold returns true if the booking occupies confirmed inventory
func (s BookingStatus) CountsAsSold() bool {
	return s == BookingConfirmed || s == BookingUsed
}

// Booking represents a ticket booking in the system
type Booking struct {
	ID            int           `json:"id" db:"id"`
	BookingCode   string        `json:"booking_code" db:"booking_code"`
	UserID        int           `json:"user_id" db:"user_id"`
	EventID       int           `json:"event_id" db:"event_id"`
	Quantity      int           `json:"quantity" db:"quantity"`
	TotalAmount   int           `json:"total_amount" db:"total_amount"` // Amount in cents
	Status        BookingStatus `json:"status" db:"status"`
	Notes         string        `json:"notes" db:"notes"`
	QRCode        string        `json:"qr_code" db:"qr_code"`
	PaymentDate   *time.Time    `json:"payment_date" db:"payment_date"`
	PaymentMethod string        `json:"payment_method" db:"payment_method"`
	PaymentRef    string        `json:"payment_reference" db:"payment_reference"`
	CheckedInAt   *time.Time    `json:"checked_in_at" db:"checked_in_at"`
	CancelledAt   *time.Time    `json:"cancelled_at" db:"cancelled_at"`
	RefundAmount  int           `json:"refund_amount" db:"refund_amount"` // Amount in cents
	RefundRef     string        `json:"refund_reference" db:"refund_reference"`
	RefundedAt    *time.Time    `json:"refunded_at" db:"refunded_at"`
	ExpiresAt     *time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	// Related data
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}

// BookingCreateRequest represents the data needed to create a new booking
type BookingCreateRequest struct {
	EventID  int    `json:"event_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// Validate validates booking creation data
func (req *BookingCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	if req.Quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}

	if len(req.Notes) > 500 {
		return errors.New("notes must be less than 500 characters")
	}

	return nil
}

// GenerateBookingCode creates a new unique booking code (e.g., BK-3F2A91CD)
func GenerateBookingCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "BK-" + strings.ToUpper(id[:8])
}

// QRCodeValue returns the value encoded into the booking's QR code
func (b *Booking) QRCodeValue() string {
	return fmt.Sprintf("QR-%s-%d", b.BookingCode, b.ID)
}

// IsPending returns true if the booking awaits confirmation
func (b *Booking) IsPending() bool {
	return b.Status == BookingPending
}

// IsConfirmed returns true if the booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingConfirmed
}

// IsExpired returns true if a pending booking's hold has lapsed at the given time
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == BookingPending && b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

// CanBeCancelled returns true if the booking can be cancelled at the given time.
// Requires the loaded event to evaluate the cancellation deadline.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return false
	}
	if b.Event == nil {
		return true
	}
	deadline := b.Event.StartDate.Add(-24 * time.Hour)
	if b.Event.CancellationDeadline != nil {
		deadline = *b.Event.CancellationDeadline
	}
	return now.Before(deadline)
}

// CanCheckIn returns true if the booking can be checked in at the given time.
// Check-in opens two hours before the event starts and closes when it ends.
func (b *Booking) CanCheckIn(now time.Time) bool {
	if b.Status != BookingConfirmed || b.Event == nil {
		return false
	}
	opens := b.Event.StartDate.Add(-2 * time.Hour)
	return !now.Before(opens) && now.Before(b.Event.EndDate)
}

// RefundPercent returns the percentage of the total amount refunded when
// cancelling a paid booking at the given time. Cancellations close to the
// event keep a larger share.
func (b *Booking) RefundPercent(now time.Time) int {
	if b.Event == nil {
		return 100
	}
	until := b.Event.StartDate.Sub(now)
	switch {
	case until < 48*time.Hour:
		return 50
	case until < 168*time.Hour:
		return 80
	default:
		return 100
	}
}

// TotalInCurrency returns the total amount in the main currency as a float
func (b *Booking) TotalInCurrency() float64 {
	return float64(b.TotalAmount) / 100.0
}
