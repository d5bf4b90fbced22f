package models

import (
	"errors"
	"strings"
	"time"
)

// EventStatus represents the status of an event
type EventStatus string

const (
	EventDraft           EventStatus = "draft"
	EventPendingApproval EventStatus = "pending_approval"
	EventPublished       EventStatus = "published"
	EventPaused          EventStatus = "paused"
	EventCancelled       EventStatus = "cancelled"
	EventCompleted       EventStatus = "completed"
	EventSoldOut         EventStatus = "sold_out"
	EventPostponed       EventStatus = "postponed"
)

// eventTransitions defines the allowed status transitions for events.
// Cancelled and completed are terminal.
var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:           {EventPendingApproval, EventPublished, EventCancelled},
	EventPendingApproval: {EventPublished, EventDraft, EventCancelled},
	EventPublished:       {EventPaused, EventCancelled, EventCompleted, EventSoldOut, EventPostponed},
	EventPaused:          {EventPublished, EventCancelled},
	EventSoldOut:         {EventPublished, EventCancelled, EventCompleted},
	EventPostponed:       {EventPublished, EventCancelled},
	EventCancelled:       {},
	EventCompleted:       {},
}

// CanTransitionTo returns true if the status may change to newStatus
func (s EventStatus) CanTransitionTo(newStatus EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// IsBookable returns true if the event accepts bookings in this status
func (s EventStatus) IsBookable() bool {
	return s == EventPublished
}

// IsActive returns true if the event is visible to users
func (s EventStatus) IsActive() bool {
	return s == EventPublished || s == EventSoldOut
}

// IsEditable returns true if the event can be edited in this status
func (s EventStatus) IsEditable() bool {
	return s == EventDraft || s == EventPendingApproval || s == EventPaused
}

// IsFinal returns true if no further transitions are permitted
func (s EventStatus) IsFinal() bool {
	return s == EventCancelled || s == EventCompleted
}

// NextLogicalStatus returns the status the event should move to given the
// current inventory and schedule conditions.
func (s EventStatus) NextLogicalStatus(soldOut, hasEnded bool) EventStatus {
	if s == EventPublished {
		if hasEnded {
			return EventCompleted
		}
		if soldOut {
			return EventSoldOut
		}
	} else if s == EventSoldOut && !soldOut {
		return EventPublished
	}
	return s
}

// Event represents an event in the system
type Event struct {
	ID                   int         `json:"id" db:"id"`
	Title                string      `json:"title" db:"title"`
	Description          string      `json:"description" db:"description"`
	StartDate            time.Time   `json:"start_date" db:"start_date"`
	EndDate              time.Time   `json:"end_date" db:"end_date"`
	Location             string      `json:"location" db:"location"`
	Capacity             int         `json:"capacity" db:"capacity"`
	AvailableTickets     int         `json:"available_tickets" db:"available_tickets"`
	Price                int         `json:"price" db:"price"` // Amount in cents
	Status               EventStatus `json:"status" db:"status"`
	IsPublic             bool        `json:"is_public" db:"is_public"`
	RequiresApproval     bool        `json:"requires_approval" db:"requires_approval"`
	MaxTicketsPerUser    int         `json:"max_tickets_per_user" db:"max_tickets_per_user"`
	BookingDeadline      *time.Time  `json:"booking_deadline" db:"booking_deadline"`
	CancellationDeadline *time.Time  `json:"cancellation_deadline" db:"cancellation_deadline"`
	OrganizerID          int         `json:"organizer_id" db:"organizer_id"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" db:"updated_at"`

	// Related data
	Organizer *User `json:"organizer,omitempty"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              time.Time  `json:"end_date"`
	Location             string     `json:"location"`
	Capacity             int        `json:"capacity"`
	Price                int        `json:"price"`
	IsPublic             *bool      `json:"is_public"`
	RequiresApproval     *bool      `json:"requires_approval"`
	MaxTicketsPerUser    int        `json:"max_tickets_per_user"`
	BookingDeadline      *time.Time `json:"booking_deadline"`
	CancellationDeadline *time.Time `json:"cancellation_deadline"`
}

// EventUpdateRequest represents the data that can be updated for an event
type EventUpdateRequest struct {
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              time.Time  `json:"end_date"`
	Location             string     `json:"location"`
	Capacity             int        `json:"capacity"`
	Price                int        `json:"price"`
	IsPublic             *bool      `json:"is_public"`
	RequiresApproval     *bool      `json:"requires_approval"`
	MaxTicketsPerUser    int        `json:"max_tickets_per_user"`
	BookingDeadline      *time.Time `json:"booking_deadline"`
	CancellationDeadline *time.Time `json:"cancellation_deadline"`
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	return validateEventData(req.Title, req.Location, req.StartDate, req.EndDate,
		req.Capacity, req.Price, req.BookingDeadline)
}

// Validate validates event update data
func (req *EventUpdateRequest) Validate() error {
	return validateEventData(req.Title, req.Location, req.StartDate, req.EndDate,
		req.Capacity, req.Price, req.BookingDeadline)
}

// validateEventData validates the fields shared by create and update requests
func validateEventData(title, location string, startDate, endDate time.Time, capacity, price int, bookingDeadline *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}

	if len(title) > 200 {
		return errors.New("title must be less than 200 characters")
	}

	if strings.TrimSpace(location) == "" {
		return errors.New("location is required")
	}

	if startDate.IsZero() {
		return errors.New("start date is required")
	}

	if endDate.IsZero() {
		return errors.New("end date is required")
	}

	if startDate.After(endDate) {
		return errors.New("start date must be before end date")
	}

	if capacity <= 0 {
		return errors.New("capacity must be greater than 0")
	}

	if capacity > 100000 {
		return errors.New("capacity cannot exceed 100,000")
	}

	if price < 0 {
		return errors.New("price cannot be negative")
	}

	if bookingDeadline != nil && bookingDeadline.After(startDate) {
		return errors.New("booking deadline must be before the event starts")
	}

	return nil
}

// IsPublished returns true if the event is published
func (e *Event) IsPublished() bool {
	return e.Status == EventPublished
}

// IsCancelled returns true if the event is cancelled
func (e *Event) IsCancelled() bool {
	return e.Status == EventCancelled
}

// HasStarted returns true if the event has started at the given time
func (e *Event) HasStarted(now time.Time) bool {
	return now.After(e.StartDate)
}

// HasEnded returns true if the event has ended at the given time
func (e *Event) HasEnded(now time.Time) bool {
	return now.After(e.EndDate)
}

// IsFull returns true if no tickets remain
func (e *Event) IsFull() bool {
	return e.AvailableTickets <= 0
}

// CanBook returns true if the event accepts new booking attempts at the
// given time. Availability is not checked here; the conditional reservation
// is the authoritative check, so losing a race for the last tickets reports
// insufficient inventory rather than a status error. Sold out still accepts
// attempts because the status flip may lag a concurrent cancellation.
func (e *Event) CanBook(now time.Time) bool {
	if e.Status != EventPublished && e.Status != EventSoldOut {
		return false
	}
	if e.HasEnded(now) {
		return false
	}
	if e.BookingDeadline != nil && now.After(*e.BookingDeadline) {
		return false
	}
	return true
}

// BookedTickets returns the number of tickets currently sold
func (e *Event) BookedTickets() int {
	return e.Capacity - e.AvailableTickets
}

// OccupancyPercent returns the percentage of capacity sold
func (e *Event) OccupancyPercent() float64 {
	if e.Capacity == 0 {
		return 0
	}
	return float64(e.BookedTickets()) / float64(e.Capacity) * 100
}

// ReserveTickets decrements the available ticket count in memory.
// The authoritative check-and-reserve happens in the repository; this
// mirrors the change on an already-loaded event.
func (e *Event) ReserveTickets(quantity int) error {
	if quantity > e.AvailableTickets {
		return ErrInsufficientTickets
	}
	e.AvailableTickets -= quantity
	return nil
}

// ReleaseTickets returns tickets to the pool, never exceeding capacity
func (e *Event) ReleaseTickets(quantity int) {
	e.AvailableTickets += quantity
	if e.AvailableTickets > e.Capacity {
		e.AvailableTickets = e.Capacity
	}
}

// PriceInCurrency returns the price in the main currency as a float
func (e *Event) PriceInCurrency() float64 {
	return float64(e.Price) / 100.0
}
