package services

import (
	"fmt"
	"log"
	"time"

	"event-management-platform/internal/models"
)

// LedgerEventRepository interface for the event inventory operations the
// ledger needs
type LedgerEventRepository interface {
	GetByID(id int) (*models.Event, error)
	UpdateStatus(id int, status models.EventStatus) error
	ReserveTickets(eventID, quantity int) error
	ReleaseTickets(eventID, quantity int) error
	RecomputeAvailable(eventID int) (*models.Event, error)
}

// TicketLedger coordinates event ticket inventory. Every reservation and
// release goes through it so the event's availability counter and its
// sold-out status always move together.
type TicketLedger struct {
	eventRepo LedgerEventRepository
}

// NewTicketLedger creates a new ticket ledger
func NewTicketLedger(eventRepo LedgerEventRepository) *TicketLedger {
	return &TicketLedger{eventRepo: eventRepo}
}

// Reserve takes quantity tickets from the event's pool and flips the event
// to sold out when the pool empties.
func (l *TicketLedger) Reserve(eventID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	if err := l.eventRepo.ReserveTickets(eventID, quantity); err != nil {
		return err
	}

	l.syncStatus(eventID)
	return nil
}

// Release returns quantity tickets to the event's pool and reopens a
// sold-out event when space frees up.
func (l *TicketLedger) Release(eventID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	if err := l.eventRepo.ReleaseTickets(eventID, quantity); err != nil {
		return err
	}

	l.syncStatus(eventID)
	return nil
}

// Reconcile rebuilds the event's availability from its bookings and brings
// the status back in line.
func (l *TicketLedger) Reconcile(eventID int) (*models.Event, error) {
	event, err := l.eventRepo.RecomputeAvailable(eventID)
	if err != nil {
		return nil, err
	}

	if err := l.applyStatus(event, time.Time{}); err != nil {
		return nil, err
	}

	return event, nil
}

// syncStatus moves the event between published and sold out to match its
// inventory. Failures are logged, not returned: the reservation itself
// already succeeded and the status catches up on the next change.
func (l *TicketLedger) syncStatus(eventID int) {
	event, err := l.eventRepo.GetByID(eventID)
	if err != nil {
		log.Printf("ledger: failed to load event %d for status sync: %v", eventID, err)
		return
	}

	if err := l.applyStatus(event, time.Time{}); err != nil {
		log.Printf("ledger: failed to sync status for event %d: %v", eventID, err)
	}
}

func (l *TicketLedger) applyStatus(event *models.Event, now time.Time) error {
	hasEnded := !now.IsZero() && event.HasEnded(now)
	next := event.Status.NextLogicalStatus(event.IsFull(), hasEnded)
	if next == event.Status {
		return nil
	}
	if !event.Status.CanTransitionTo(next) {
		return nil
	}

	if err := l.eventRepo.UpdateStatus(event.ID, next); err != nil {
		return err
	}
	event.Status = next
	return nil
}
