package models

import (
	"strings"
	"testing"
	"time"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     BookingStatus
		to       BookingStatus
		expected bool
	}{
		{"pending to confirmed", BookingPending, BookingConfirmed, true},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"pending to expired", BookingPending, BookingExpired, true},
		{"pending to rejected", BookingPending, BookingRejected, true},
		{"pending to used", BookingPending, BookingUsed, false},
		{"pending to refunded", BookingPending, BookingRefunded, false},
		{"confirmed to used", BookingConfirmed, BookingUsed, true},
		{"confirmed to cancelled", BookingConfirmed, BookingCancelled, true},
		{"confirmed to no show", BookingConfirmed, BookingNoShow, true},
		{"confirmed to refund pending", BookingConfirmed, BookingRefundPending, true},
		{"confirmed to expired", BookingConfirmed, BookingExpired, false},
		{"refund pending to refunded", BookingRefundPending, BookingRefunded, true},
		{"refund pending back to confirmed", BookingRefundPending, BookingConfirmed, false},
		{"refund pending to cancelled", BookingRefundPending, BookingCancelled, false},
		{"cancelled to refund pending", BookingCancelled, BookingRefundPending, true},
		{"cancelled to refunded", BookingCancelled, BookingRefunded, true},
		{"cancelled back to confirmed", BookingCancelled, BookingConfirmed, false},
		{"expired is terminal", BookingExpired, BookingConfirmed, false},
		{"used is terminal", BookingUsed, BookingRefundPending, false},
		{"refunded is terminal", BookingRefunded, BookingConfirmed, false},
		{"rejected is terminal", BookingRejected, BookingPending, false},
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

func TestBookingStatus_CountsAsSold(t *testing.T) {
	sold := []BookingStatus{BookingConfirmed, BookingUsed}
	notSold := []BookingStatus{BookingPending, BookingCancelled, BookingExpired, BookingRefunded, BookingNoShow, BookingRejected, BookingRefundPending}

	for _, s := range sold {
		if !s.CountsAsSold() {
			t.Errorf("CountsAsSold(%s) = false, expected true", s)
		}
	}
	for _, s := range notSold {
		if s.CountsAsSold() {
			t.Errorf("CountsAsSold(%s) = true, expected false", s)
		}
	}
}

func TestBookingStatus_OccupiesInventory(t *testing.T) {
	occupies := []BookingStatus{BookingPending, BookingConfirmed, BookingUsed, BookingNoShow}
	released := []BookingStatus{BookingCancelled, BookingExpired, BookingRejected, BookingRefundPending, BookingRefunded}

	for _, s := range occupies {
		if !s.OccupiesInventory() {
			t.Errorf("OccupiesInventory(%s) = false, expected true", s)
		}
	}
	for _, s := range released {
		if s.OccupiesInventory() {
			t.Errorf("OccupiesInventory(%s) = true, expected false", s)
		}
	}
}

func TestGenerateBookingCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code := GenerateBookingCode()

		if !strings.HasPrefix(code, "BK-") {
			t.Fatalf("code %q missing BK- prefix", code)
		}
		if len(code) != 11 {
			t.Fatalf("code %q has length %d, expected 11", code, len(code))
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q is not uppercase", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code generated: %q", code)
		}
		seen[code] = true
	}
}

func TestBooking_QRCodeValue(t *testing.T) {
	booking := Booking{ID: 42, BookingCode: "BK-3F2A91CD"}

	expected := "QR-BK-3F2A91CD-42"
	if got := booking.QRCodeValue(); got != expected {
		t.Errorf("QRCodeValue() = %q, expected %q", got, expected)
	}
}

func TestBooking_CanBeCancelled(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	customDeadline := now.Add(-time.Hour)

	tests := []struct {
		name     string
		booking  Booking
		expected bool
	}{
		{
			name: "confirmed booking well before start",
			booking: Booking{
				Status: BookingConfirmed,
				Event:  &Event{StartDate: now.Add(72 * time.Hour)},
			},
			expected: true,
		},
		{
			name: "pending booking well before start",
			booking: Booking{
				Status: BookingPending,
				Event:  &Event{StartDate: now.Add(72 * time.Hour)},
			},
			expected: true,
		},
		{
			name: "within 24 hours of start",
			booking: Booking{
				Status: BookingConfirmed,
				Event:  &Event{StartDate: now.Add(12 * time.Hour)},
			},
			expected: false,
		},
		{
			name: "custom deadline already passed",
			booking: Booking{
				Status: BookingConfirmed,
				Event: &Event{
					StartDate:            now.Add(72 * time.Hour),
					CancellationDeadline: &customDeadline,
				},
			},
			expected: false,
		},
		{
			name: "used booking",
			booking: Booking{
				Status: BookingUsed,
				Event:  &Event{StartDate: now.Add(72 * time.Hour)},
			},
			expected: false,
		},
		{
			name: "cancelled booking",
			booking: Booking{
				Status: BookingCancelled,
				Event:  &Event{StartDate: now.Add(72 * time.Hour)},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.booking.CanBeCancelled(now)
			if result != tt.expected {
				t.Errorf("CanBeCancelled() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestBooking_CanCheckIn(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		booking  Booking
		expected bool
	}{
		{
			name: "confirmed within the check-in window",
			booking: Booking{
				Status: BookingConfirmed,
				Event:  &Event{StartDate: now.Add(time.Hour), EndDate: now.Add(5 * time.Hour)},
			},
			expected: true,
		},
		{
			name: "window opens exactly two hours before start",
			booking: Booking{
				Status: BookingConfirmed,
				Event:  &Event{StartDate: now.Add(2 * time.Hour), EndDate: now.Add(6 * time.Hour)},
			},
			expected: true,
		},
		{
			name: "too early",
			booking: Booking{
				Status: BookingConfirmed,
				Event:  &Event{StartDate: now.Add(3 * time.Hour), EndDate: now.Add(7 * time.Hour)},
			},
			expected: false,
		},
		{
			name: "event already ended",
			booking: Booking{
				Status: BookingConfirmed,
				Event:  &Event{StartDate: now.Add(-5 * time.Hour), EndDate: now.Add(-time.Hour)},
			},
			expected: false,
		},
		{
			name: "pending booking",
			booking: Booking{
				Status: BookingPending,
				Event:  &Event{StartDate: now.Add(time.Hour), EndDate: now.Add(5 * time.Hour)},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.booking.CanCheckIn(now)
			if result != tt.expected {
				t.Errorf("CanCheckIn() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestBooking_RefundPercent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		untilStart time.Duration
		expected   int
	}{
		{"less than 48 hours", 24 * time.Hour, 50},
		{"just under 48 hours", 47 * time.Hour, 50},
		{"between 48 hours and a week", 96 * time.Hour, 80},
		{"just under a week", 167 * time.Hour, 80},
		{"more than a week", 200 * time.Hour, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := Booking{
				Event: &Event{StartDate: now.Add(tt.untilStart)},
			}
			result := booking.RefundPercent(now)
			if result != tt.expected {
				t.Errorf("RefundPercent() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestBooking_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name     string
		booking  Booking
		expected bool
	}{
		{"pending past hold", Booking{Status: BookingPending, ExpiresAt: &past}, true},
		{"pending within hold", Booking{Status: BookingPending, ExpiresAt: &future}, false},
		{"pending without hold", Booking{Status: BookingPending}, false},
		{"confirmed past hold", Booking{Status: BookingConfirmed, ExpiresAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.booking.IsExpired(now)
			if result != tt.expected {
				t.Errorf("IsExpired() = %v, expected %v", result, tt.expected)
			}
		})
	}
}
