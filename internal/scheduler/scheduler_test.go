package scheduler

import (
	"context"
	"testing"
	"time"

	"event-management-platform/internal/clock"
	"event-management-platform/internal/models"
	"event-management-platform/internal/repositories"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeSweeper struct {
	calls int
	count int
	err   error
}

func (f *fakeSweeper) ProcessExpiredBookings() (int, error) {
	f.calls++
	return f.count, f.err
}

type fakeEventSource struct {
	from, to time.Time
	events   []*models.Event
}

func (f *fakeEventSource) GetPublishedStartingBetween(from, to time.Time) ([]*models.Event, error) {
	f.from, f.to = from, to
	return f.events, nil
}

type fakeBookingSource struct {
	filters  []repositories.BookingSearchFilters
	bookings []*models.Booking
}

func (f *fakeBookingSource) Search(filters repositories.BookingSearchFilters) ([]*models.Booking, error) {
	f.filters = append(f.filters, filters)
	return f.bookings, nil
}

type fakeNotifier struct {
	reminders int
}

func (f *fakeNotifier) NotifyEventReminder(event *models.Event, booking *models.Booking) {
	f.reminders++
}

type fakeEmailRetrier struct {
	sendCalls    int
	cleanupCalls int
}

func (f *fakeEmailRetrier) SendPendingEmails(limit int) (int, error) {
	f.sendCalls++
	return 0, nil
}

func (f *fakeEmailRetrier) CleanupExpired() (int, error) {
	f.cleanupCalls++
	return 0, nil
}

func newTestScheduler(sweeper *fakeSweeper, events *fakeEventSource, bookings *fakeBookingSource, notifier *fakeNotifier, emails *fakeEmailRetrier, cfg Config) *Scheduler {
	return New(sweeper, events, bookings, notifier, emails, clock.NewFixed(testNow), cfg)
}

func TestSweepRemindersWindow(t *testing.T) {
	events := &fakeEventSource{}
	s := newTestScheduler(&fakeSweeper{}, events, &fakeBookingSource{}, &fakeNotifier{}, &fakeEmailRetrier{}, Config{
		ReminderInterval: 15 * time.Minute,
		ReminderLeadTime: 24 * time.Hour,
	})

	s.sweepReminders()

	wantFrom := testNow.Add(24*time.Hour - 15*time.Minute)
	wantTo := testNow.Add(24 * time.Hour)
	if !events.from.Equal(wantFrom) || !events.to.Equal(wantTo) {
		t.Errorf("expected window [%v, %v], got [%v, %v]", wantFrom, wantTo, events.from, events.to)
	}
}

func TestSweepRemindersNotifiesConfirmedBookers(t *testing.T) {
	events := &fakeEventSource{
		events: []*models.Event{{ID: 7, Title: "Morning Run", StartDate: testNow.Add(24 * time.Hour)}},
	}
	bookings := &fakeBookingSource{
		bookings: []*models.Booking{
			{ID: 1, UserID: 10, EventID: 7, Status: models.BookingConfirmed},
			{ID: 2, UserID: 11, EventID: 7, Status: models.BookingConfirmed},
		},
	}
	notifier := &fakeNotifier{}
	s := newTestScheduler(&fakeSweeper{}, events, bookings, notifier, &fakeEmailRetrier{}, Config{
		ReminderInterval: 15 * time.Minute,
		ReminderLeadTime: 24 * time.Hour,
	})

	s.sweepReminders()

	if notifier.reminders != 2 {
		t.Errorf("expected 2 reminders, got %d", notifier.reminders)
	}
	if len(bookings.filters) != 1 {
		t.Fatalf("expected 1 booking lookup, got %d", len(bookings.filters))
	}
	filter := bookings.filters[0]
	if filter.EventID != 7 || filter.Status != models.BookingConfirmed {
		t.Errorf("reminder lookup should target confirmed bookings on the event, got %+v", filter)
	}
}

func TestSweepEmails(t *testing.T) {
	emails := &fakeEmailRetrier{}
	s := newTestScheduler(&fakeSweeper{}, &fakeEventSource{}, &fakeBookingSource{}, &fakeNotifier{}, emails, Config{})

	s.sweepEmails()

	if emails.sendCalls != 1 || emails.cleanupCalls != 1 {
		t.Errorf("expected one send and one cleanup, got %d and %d", emails.sendCalls, emails.cleanupCalls)
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := newTestScheduler(sweeper, &fakeEventSource{}, &fakeBookingSource{}, &fakeNotifier{}, &fakeEmailRetrier{}, Config{
		ExpiryInterval:   time.Millisecond,
		ReminderInterval: time.Hour,
		ReminderLeadTime: 24 * time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	// Let a few expiry ticks land, then stop.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}

	if sweeper.calls == 0 {
		t.Error("expected at least one expiry sweep")
	}
}
