package models

import (
	"errors"
	"strings"
	"time"
)

// NotificationType categorizes notifications delivered to users
type NotificationType string

const (
	NotificationBookingCreated    NotificationType = "booking_created"
	NotificationBookingConfirmed  NotificationType = "booking_confirmed"
	NotificationBookingCancelled  NotificationType = "booking_cancelled"
	NotificationBookingRejected   NotificationType = "booking_rejected"
	NotificationBookingExpired    NotificationType = "booking_expired"
	NotificationRefundProcessed   NotificationType = "refund_processed"
	NotificationEventReminder     NotificationType = "event_reminder"
	NotificationEventCancelled    NotificationType = "event_cancelled"
	NotificationEventUpdated      NotificationType = "event_updated"
	NotificationCheckInComplete   NotificationType = "check_in_complete"
	NotificationResourceAttention NotificationType = "resource_attention"
)

// NotificationPriority indicates how urgently a notification should be handled
type NotificationPriority string

const (
	PriorityLow      NotificationPriority = "low"
	PriorityNormal   NotificationPriority = "normal"
	PriorityHigh     NotificationPriority = "high"
	PriorityUrgent   NotificationPriority = "urgent"
	PriorityCritical NotificationPriority = "critical"
)

// validPriorities lists every accepted notification priority
var validPriorities = []NotificationPriority{
	PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent, PriorityCritical,
}

// IsValid returns true if the priority is one of the accepted values
func (p NotificationPriority) IsValid() bool {
	for _, valid := range validPriorities {
		if p == valid {
			return true
		}
	}
	return false
}

// TTL returns how long a notification of this priority stays relevant.
// Higher priorities expire sooner so stale alerts are not re-sent.
func (p NotificationPriority) TTL() time.Duration {
	switch p {
	case PriorityCritical:
		return 6 * time.Hour
	case PriorityUrgent:
		return 12 * time.Hour
	case PriorityHigh:
		return 24 * time.Hour
	case PriorityNormal:
		return 72 * time.Hour
	default:
		return 168 * time.Hour
	}
}

// Notification represents a message delivered to a user
type Notification struct {
	ID        int                  `json:"id" db:"id"`
	UserID    int                  `json:"user_id" db:"user_id"`
	Type      NotificationType     `json:"type" db:"type"`
	Priority  NotificationPriority `json:"priority" db:"priority"`
	Title     string               `json:"title" db:"title"`
	Message   string               `json:"message" db:"message"`
	IsRead    bool                 `json:"is_read" db:"is_read"`
	EmailSent bool                 `json:"email_sent" db:"email_sent"`
	ExpiresAt time.Time            `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
}

// NotificationCreateRequest represents the data needed to create a notification
type NotificationCreateRequest struct {
	UserID   int                  `json:"user_id"`
	Type     NotificationType     `json:"type"`
	Priority NotificationPriority `json:"priority"`
	Title    string               `json:"title"`
	Message  string               `json:"message"`
}

// Validate validates notification creation data
func (req *NotificationCreateRequest) Validate() error {
	if req.UserID <= 0 {
		return errors.New("user id is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}

	if len(req.Title) > 200 {
		return errors.New("title must be less than 200 characters")
	}

	if !req.Priority.IsValid() {
		return errors.New("priority is invalid")
	}

	return nil
}

// IsExpired returns true if the notification is stale at the given time
func (n *Notification) IsExpired(now time.Time) bool {
	return now.After(n.ExpiresAt)
}

// NeedsEmail returns true if the notification should be delivered by email.
// Only high priorities and above go out by email.
func (n *Notification) NeedsEmail() bool {
	switch n.Priority {
	case PriorityHigh, PriorityUrgent, PriorityCritical:
		return !n.EmailSent
	default:
		return false
	}
}
