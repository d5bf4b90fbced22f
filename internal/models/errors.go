package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrForbidden           = errors.New("insufficient permissions")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientTickets = errors.New("insufficient tickets available")
	ErrValidation          = errors.New("validation failed")
	ErrDeadlinePassed      = errors.New("deadline has passed")

	ErrEventNotBookable   = errors.New("event is not open for bookings")
	ErrTicketLimit        = errors.New("ticket limit for this event exceeded")
	ErrOrganizerBooking   = errors.New("organizers cannot book their own events")
	ErrNotCancellable     = errors.New("booking cannot be cancelled")
	ErrNotPending         = errors.New("booking is not pending")
	ErrCannotCheckIn      = errors.New("booking cannot be checked in")
	ErrPaymentNotRequired = errors.New("booking does not require payment")
	ErrNotRefundPending   = errors.New("booking is not pending a refund")
	ErrResourceInUse      = errors.New("resource is in use")
	ErrActiveBookings     = errors.New("event has active bookings")
)
