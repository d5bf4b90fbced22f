package models

import (
	"strings"
	"testing"
	"time"
)

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     EventStatus
		to       EventStatus
		expected bool
	}{
		{"draft to published", EventDraft, EventPublished, true},
		{"draft to pending approval", EventDraft, EventPendingApproval, true},
		{"draft to cancelled", EventDraft, EventCancelled, true},
		{"draft to completed", EventDraft, EventCompleted, false},
		{"pending approval to published", EventPendingApproval, EventPublished, true},
		{"pending approval back to draft", EventPendingApproval, EventDraft, true},
		{"published to sold out", EventPublished, EventSoldOut, true},
		{"published to paused", EventPublished, EventPaused, true},
		{"published to postponed", EventPublished, EventPostponed, true},
		{"published to completed", EventPublished, EventCompleted, true},
		{"published back to draft", EventPublished, EventDraft, false},
		{"sold out back to published", EventSoldOut, EventPublished, true},
		{"sold out to completed", EventSoldOut, EventCompleted, true},
		{"paused to published", EventPaused, EventPublished, true},
		{"paused to sold out", EventPaused, EventSoldOut, false},
		{"postponed to published", EventPostponed, EventPublished, true},
		{"cancelled is terminal", EventCancelled, EventPublished, false},
		{"completed is terminal", EventCompleted, EventPublished, false},
		{"self transition not allowed", EventPublished, EventPublished, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.from.CanTransitionTo(tt.to)
			if result != tt.expected {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, expected %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestEventStatus_TransitionTableIsClosed(t *testing.T) {
	all := []EventStatus{
		EventDraft, EventPendingApproval, EventPublished, EventPaused,
		EventCancelled, EventCompleted, EventSoldOut, EventPostponed,
	}

	for _, from := range all {
		targets, ok := eventTransitions[from]
		if !ok {
			t.Errorf("status %s missing from transition table", from)
			continue
		}
		for _, to := range targets {
			if _, ok := eventTransitions[to]; !ok {
				t.Errorf("transition %s -> %s targets an unknown status", from, to)
			}
		}
	}
}

func TestEventStatus_NextLogicalStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   EventStatus
		soldOut  bool
		hasEnded bool
		expected EventStatus
	}{
		{"published with tickets stays published", EventPublished, false, false, EventPublished},
		{"published sells out", EventPublished, true, false, EventSoldOut},
		{"published past end completes", EventPublished, false, true, EventCompleted},
		{"ended wins over sold out", EventPublished, true, true, EventCompleted},
		{"sold out frees up", EventSoldOut, false, false, EventPublished},
		{"sold out stays sold out", EventSoldOut, true, false, EventSoldOut},
		{"draft unaffected", EventDraft, true, true, EventDraft},
		{"cancelled unaffected", EventCancelled, false, true, EventCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.status.NextLogicalStatus(tt.soldOut, tt.hasEnded)
			if result != tt.expected {
				t.Errorf("NextLogicalStatus(%v, %v) = %s, expected %s", tt.soldOut, tt.hasEnded, result, tt.expected)
			}
		})
	}
}

func TestEvent_CanBook(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(48 * time.Hour)
	end := start.Add(4 * time.Hour)
	pastDeadline := now.Add(-time.Hour)
	futureDeadline := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		event    Event
		expected bool
	}{
		{
			name: "published event with tickets",
			event: Event{
				Status: EventPublished, Capacity: 100, AvailableTickets: 10,
				StartDate: start, EndDate: end,
			},
			expected: true,
		},
		{
			name: "draft event",
			event: Event{
				Status: EventDraft, Capacity: 100, AvailableTickets: 10,
				StartDate: start, EndDate: end,
			},
			expected: false,
		},
		{
			name: "sold out event still accepts attempts",
			event: Event{
				Status: EventSoldOut, Capacity: 100, AvailableTickets: 0,
				StartDate: start, EndDate: end,
			},
			expected: true,
		},
		{
			name: "no tickets left defers to the reservation",
			event: Event{
				Status: EventPublished, Capacity: 100, AvailableTickets: 0,
				StartDate: start, EndDate: end,
			},
			expected: true,
		},
		{
			name: "cancelled event",
			event: Event{
				Status: EventCancelled, Capacity: 100, AvailableTickets: 10,
				StartDate: start, EndDate: end,
			},
			expected: false,
		},
		{
			name: "booking deadline passed",
			event: Event{
				Status: EventPublished, Capacity: 100, AvailableTickets: 10,
				StartDate: start, EndDate: end, BookingDeadline: &pastDeadline,
			},
			expected: false,
		},
		{
			name: "booking deadline in the future",
			event: Event{
				Status: EventPublished, Capacity: 100, AvailableTickets: 10,
				StartDate: start, EndDate: end, BookingDeadline: &futureDeadline,
			},
			expected: true,
		},
		{
			name: "event already ended",
			event: Event{
				Status: EventPublished, Capacity: 100, AvailableTickets: 10,
				StartDate: now.Add(-6 * time.Hour), EndDate: now.Add(-2 * time.Hour),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.event.CanBook(now)
			if result != tt.expected {
				t.Errorf("CanBook() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestEvent_ReserveTickets(t *testing.T) {
	event := Event{Capacity: 10, AvailableTickets: 3}

	if err := event.ReserveTickets(2); err != nil {
		t.Errorf("ReserveTickets(2) unexpected error: %v", err)
	}
	if event.AvailableTickets != 1 {
		t.Errorf("AvailableTickets = %d, expected 1", event.AvailableTickets)
	}

	if err := event.ReserveTickets(2); err != ErrInsufficientTickets {
		t.Errorf("ReserveTickets(2) error = %v, expected ErrInsufficientTickets", err)
	}
	if event.AvailableTickets != 1 {
		t.Errorf("AvailableTickets = %d after failed reserve, expected 1", event.AvailableTickets)
	}
}

func TestEvent_ReleaseTickets(t *testing.T) {
	tests := []struct {
		name      string
		available int
		capacity  int
		release   int
		expected  int
	}{
		{"simple release", 5, 10, 2, 7},
		{"release to full capacity", 8, 10, 2, 10},
		{"release clamped at capacity", 9, 10, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{Capacity: tt.capacity, AvailableTickets: tt.available}
			event.ReleaseTickets(tt.release)
			if event.AvailableTickets != tt.expected {
				t.Errorf("AvailableTickets = %d, expected %d", event.AvailableTickets, tt.expected)
			}
		})
	}
}

func TestEventCreateRequest_Validate(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	lateDeadline := start.Add(time.Hour)

	valid := EventCreateRequest{
		Title:     "Summer Concert",
		Location:  "Main Hall",
		StartDate: start,
		EndDate:   end,
		Capacity:  500,
		Price:     2500,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("valid request returned error: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*EventCreateRequest)
		wantErr string
	}{
		{"empty title", func(r *EventCreateRequest) { r.Title = "  " }, "title is required"},
		{"title too long", func(r *EventCreateRequest) { r.Title = strings.Repeat("a", 201) }, "title must be less than 200 characters"},
		{"empty location", func(r *EventCreateRequest) { r.Location = "" }, "location is required"},
		{"start after end", func(r *EventCreateRequest) { r.StartDate = end.Add(time.Hour) }, "start date must be before end date"},
		{"zero capacity", func(r *EventCreateRequest) { r.Capacity = 0 }, "capacity must be greater than 0"},
		{"capacity too large", func(r *EventCreateRequest) { r.Capacity = 100001 }, "capacity cannot exceed 100,000"},
		{"negative price", func(r *EventCreateRequest) { r.Price = -1 }, "price cannot be negative"},
		{"deadline after start", func(r *EventCreateRequest) { r.BookingDeadline = &lateDeadline }, "booking deadline must be before the event starts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, expected %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEvent_OccupancyPercent(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		available int
		expected  float64
	}{
		{"half sold", 100, 50, 50},
		{"fully sold", 100, 0, 100},
		{"nothing sold", 100, 100, 0},
		{"zero capacity", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{Capacity: tt.capacity, AvailableTickets: tt.available}
			result := event.OccupancyPercent()
			if result != tt.expected {
				t.Errorf("OccupancyPercent() = %v, expected %v", result, tt.expected)
			}
		})
	}
}
