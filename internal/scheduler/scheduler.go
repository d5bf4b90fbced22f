// Package scheduler runs the periodic sweeps that keep bookings,
// notifications, and reminders current.
package scheduler

import (
	"context"
	"log"
	"time"

	"event-management-platform/internal/clock"
	"event-management-platform/internal/models"
	"event-management-platform/internal/repositories"
)

type bookingSweeper interface {
	ProcessExpiredBookings() (int, error)
}

type reminderEventSource interface {
	GetPublishedStartingBetween(from, to time.Time) ([]*models.Event, error)
}

type reminderBookingSource interface {
	Search(filters repositories.BookingSearchFilters) ([]*models.Booking, error)
}

type reminderNotifier interface {
	NotifyEventReminder(event *models.Event, booking *models.Booking)
}

type emailRetrier interface {
	SendPendingEmails(limit int) (int, error)
	CleanupExpired() (int, error)
}

// Config holds the scheduler's sweep intervals
type Config struct {
	ExpiryInterval   time.Duration
	ReminderInterval time.Duration
	ReminderLeadTime time.Duration
}

// Scheduler drives the background sweeps: expiring stale booking holds,
// sending event reminders, and retrying notification emails.
type Scheduler struct {
	bookings      bookingSweeper
	events        reminderEventSource
	bookingSource reminderBookingSource
	notifier      reminderNotifier
	emails        emailRetrier
	clock         clock.Clock
	config        Config
}

// New creates a new scheduler
func New(
	bookings bookingSweeper,
	events reminderEventSource,
	bookingSource reminderBookingSource,
	notifier reminderNotifier,
	emails emailRetrier,
	clk clock.Clock,
	config Config,
) *Scheduler {
	return &Scheduler{
		bookings:      bookings,
		events:        events,
		bookingSource: bookingSource,
		notifier:      notifier,
		emails:        emails,
		clock:         clk,
		config:        config,
	}
}

// Start runs the sweeps until the context is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	expiryTicker := time.NewTicker(s.config.ExpiryInterval)
	defer expiryTicker.Stop()
	reminderTicker := time.NewTicker(s.config.ReminderInterval)
	defer reminderTicker.Stop()

	log.Printf("scheduler started (expiry every %s, reminders every %s)",
		s.config.ExpiryInterval, s.config.ReminderInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler stopped")
			return
		case <-expiryTicker.C:
			s.sweepExpired()
		case <-reminderTicker.C:
			s.sweepReminders()
			s.sweepEmails()
		}
	}
}

// sweepExpired expires pending bookings whose hold lapsed
func (s *Scheduler) sweepExpired() {
	count, err := s.bookings.ProcessExpiredBookings()
	if err != nil {
		log.Printf("scheduler: expiry sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("scheduler: expired %d booking(s)", count)
	}
}

// sweepReminders notifies confirmed bookers of events that start inside
// the next reminder window. The window advances with each sweep so every
// event is picked up exactly once.
func (s *Scheduler) sweepReminders() {
	now := s.clock.Now()
	from := now.Add(s.config.ReminderLeadTime - s.config.ReminderInterval)
	to := now.Add(s.config.ReminderLeadTime)

	events, err := s.events.GetPublishedStartingBetween(from, to)
	if err != nil {
		log.Printf("scheduler: reminder sweep failed: %v", err)
		return
	}

	for _, event := range events {
		bookings, err := s.bookingSource.Search(repositories.BookingSearchFilters{
			EventID: event.ID,
			Status:  models.BookingConfirmed,
		})
		if err != nil {
			log.Printf("scheduler: failed to load bookings for event %d: %v", event.ID, err)
			continue
		}

		for _, booking := range bookings {
			s.notifier.NotifyEventReminder(event, booking)
		}
	}
}

// sweepEmails retries notification emails that failed inline and drops
// notifications past their expiry
func (s *Scheduler) sweepEmails() {
	if sent, err := s.emails.SendPendingEmails(100); err != nil {
		log.Printf("scheduler: email retry failed: %v", err)
	} else if sent > 0 {
		log.Printf("scheduler: delivered %d pending email(s)", sent)
	}

	if removed, err := s.emails.CleanupExpired(); err != nil {
		log.Printf("scheduler: notification cleanup failed: %v", err)
	} else if removed > 0 {
		log.Printf("scheduler: removed %d expired notification(s)", removed)
	}
}
