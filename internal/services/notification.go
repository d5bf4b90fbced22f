package services

import (
	"fmt"
	"log"
	"time"

	"event-management-platform/internal/clock"
	"event-management-platform/internal/models"
)

// NotificationRepository interface for notification data operations
type NotificationRepository interface {
	Create(n *models.Notification) (*models.Notification, error)
	GetByUserID(userID int, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(id, userID int) error
	MarkAllRead(userID int) error
	MarkEmailSent(id int) error
	GetPendingEmails(now time.Time, limit int) ([]*models.Notification, error)
	DeleteExpired(now time.Time) (int, error)
}

// NotificationUserRepository interface for the user lookups notifications need
type NotificationUserRepository interface {
	GetByID(id int) (*models.User, error)
}

// NotificationService records notifications and delivers the urgent ones
// by email. Delivery runs in the background and never fails the operation
// that triggered it.
type NotificationService struct {
	notificationRepo NotificationRepository
	userRepo         NotificationUserRepository
	emailSender      EmailSender
	clock            clock.Clock
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo NotificationRepository,
	userRepo NotificationUserRepository,
	emailSender EmailSender,
	clk clock.Clock,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailSender:      emailSender,
		clock:            clk,
	}
}

// Notify records a notification and kicks off email delivery when the
// priority warrants it. Errors are logged, never returned: a lost
// notification must not roll back a booking.
func (s *NotificationService) Notify(userID int, nType models.NotificationType, priority models.NotificationPriority, title, message string) {
	n := &models.Notification{
		UserID:    userID,
		Type:      nType,
		Priority:  priority,
		Title:     title,
		Message:   message,
		ExpiresAt: s.clock.Now().Add(priority.TTL()),
	}

	created, err := s.notificationRepo.Create(n)
	if err != nil {
		log.Printf("notification: failed to record %s for user %d: %v", nType, userID, err)
		return
	}

	if created.NeedsEmail() {
		go s.deliverEmail(created)
	}
}

// GetUserNotifications retrieves a user's notifications
func (s *NotificationService) GetUserNotifications(userID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	return s.notificationRepo.GetByUserID(userID, unreadOnly, limit)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(id, userID int) error {
	return s.notificationRepo.MarkRead(id, userID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *NotificationService) MarkAllRead(userID int) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// SendPendingEmails delivers emails for notifications that still need one.
// The scheduler calls this to retry deliveries that failed inline.
func (s *NotificationService) SendPendingEmails(limit int) (int, error) {
	pending, err := s.notificationRepo.GetPendingEmails(s.clock.Now(), limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range pending {
		if s.sendEmail(n) {
			sent++
		}
	}
	return sent, nil
}

// CleanupExpired removes notifications past their expiry
func (s *NotificationService) CleanupExpired() (int, error) {
	return s.notificationRepo.DeleteExpired(s.clock.Now())
}

// deliverEmail sends the notification's email in the background
func (s *NotificationService) deliverEmail(n *models.Notification) {
	s.sendEmail(n)
}

func (s *NotificationService) sendEmail(n *models.Notification) bool {
	user, err := s.userRepo.GetByID(n.UserID)
	if err != nil {
		log.Printf("notification: failed to load user %d for email: %v", n.UserID, err)
		return false
	}

	htmlBody := fmt.Sprintf("<html><body><h2>%s</h2><p>Hi %s,</p><p>%s</p></body></html>",
		n.Title, user.FirstName, n.Message)
	textBody := fmt.Sprintf("Hi %s,\n\n%s", user.FirstName, n.Message)

	if err := s.emailSender.Send(user.Email, n.Title, htmlBody, textBody); err != nil {
		log.Printf("notification: failed to email user %d: %v", n.UserID, err)
		return false
	}

	if err := s.notificationRepo.MarkEmailSent(n.ID); err != nil {
		log.Printf("notification: failed to mark email sent for %d: %v", n.ID, err)
	}
	return true
}

// NotifyBookingCreated implements Notifier
func (s *NotificationService) NotifyBookingCreated(booking *models.Booking, event *models.Event) {
	s.Notify(booking.UserID, models.NotificationBookingCreated, models.PriorityNormal,
		fmt.Sprintf("Booking received for %s", event.Title),
		fmt.Sprintf("Your booking %s for %d ticket(s) to %s is awaiting %s.",
			booking.BookingCode, booking.Quantity, event.Title, pendingReason(booking, event)))
}

// NotifyBookingConfirmed implements Notifier
func (s *NotificationService) NotifyBookingConfirmed(booking *models.Booking, event *models.Event) {
	s.Notify(booking.UserID, models.NotificationBookingConfirmed, models.PriorityHigh,
		fmt.Sprintf("Booking confirmed for %s", event.Title),
		fmt.Sprintf("Your booking %s for %d ticket(s) to %s on %s is confirmed. Total: %.2f.",
			booking.BookingCode, booking.Quantity, event.Title,
			event.StartDate.Format("Jan 2, 2006 15:04"), booking.TotalInCurrency()))
}

// NotifyBookingCancelled implements Notifier
func (s *NotificationService) NotifyBookingCancelled(booking *models.Booking, event *models.Event, refundAmount int) {
	message := fmt.Sprintf("Your booking %s for %s has been cancelled.", booking.BookingCode, event.Title)
	if refundAmount > 0 {
		message += fmt.Sprintf(" A refund of %.2f is being processed.", float64(refundAmount)/100.0)
	}
	s.Notify(booking.UserID, models.NotificationBookingCancelled, models.PriorityHigh,
		fmt.Sprintf("Booking cancelled for %s", event.Title), message)
}

// NotifyBookingRejected implements Notifier
func (s *NotificationService) NotifyBookingRejected(booking *models.Booking, event *models.Event) {
	s.Notify(booking.UserID, models.NotificationBookingRejected, models.PriorityHigh,
		fmt.Sprintf("Booking declined for %s", event.Title),
		fmt.Sprintf("Your booking %s for %s was declined by the organizer.", booking.BookingCode, event.Title))
}

// NotifyBookingExpired implements Notifier
func (s *NotificationService) NotifyBookingExpired(booking *models.Booking, event *models.Event) {
	s.Notify(booking.UserID, models.NotificationBookingExpired, models.PriorityNormal,
		fmt.Sprintf("Booking expired for %s", event.Title),
		fmt.Sprintf("Your booking %s for %s expired before it was confirmed and its tickets were released.",
			booking.BookingCode, event.Title))
}

// NotifyRefundProcessed implements Notifier
func (s *NotificationService) NotifyRefundProcessed(booking *models.Booking, event *models.Event) {
	s.Notify(booking.UserID, models.NotificationRefundProcessed, models.PriorityHigh,
		fmt.Sprintf("Refund processed for %s", event.Title),
		fmt.Sprintf("Your refund of %.2f for booking %s has been processed.",
			float64(booking.RefundAmount)/100.0, booking.BookingCode))
}

// NotifyEventCancelled implements EventNotifier
func (s *NotificationService) NotifyEventCancelled(event *models.Event, booking *models.Booking) {
	message := fmt.Sprintf("%s on %s has been cancelled by the organizer.",
		event.Title, event.StartDate.Format("Jan 2, 2006"))
	if booking.RefundAmount > 0 {
		message += fmt.Sprintf(" Your payment of %.2f will be refunded in full.", booking.TotalInCurrency())
	}
	s.Notify(booking.UserID, models.NotificationEventCancelled, models.PriorityUrgent,
		fmt.Sprintf("Event cancelled: %s", event.Title), message)
}

// NotifyEventUpdated implements EventNotifier
func (s *NotificationService) NotifyEventUpdated(event *models.Event, booking *models.Booking) {
	s.Notify(booking.UserID, models.NotificationEventUpdated, models.PriorityNormal,
		fmt.Sprintf("Event updated: %s", event.Title),
		fmt.Sprintf("Details for %s changed. It now runs %s to %s at %s.",
			event.Title, event.StartDate.Format("Jan 2, 2006 15:04"),
			event.EndDate.Format("Jan 2, 2006 15:04"), event.Location))
}

// NotifyEventReminder tells a booker their event is coming up
func (s *NotificationService) NotifyEventReminder(event *models.Event, booking *models.Booking) {
	s.Notify(booking.UserID, models.NotificationEventReminder, models.PriorityHigh,
		fmt.Sprintf("Reminder: %s", event.Title),
		fmt.Sprintf("%s starts %s at %s. Your booking code is %s.",
			event.Title, event.StartDate.Format("Jan 2, 2006 15:04"), event.Location, booking.BookingCode))
}

// NotifyResourceAttention implements ResourceNotifier
func (s *NotificationService) NotifyResourceAttention(resource *models.EventResource, event *models.Event) {
	s.Notify(event.OrganizerID, models.NotificationResourceAttention, models.PriorityHigh,
		fmt.Sprintf("Resource needs attention: %s", resource.Name),
		fmt.Sprintf("%s allocated to %s is now %s and needs your attention.",
			resource.Name, event.Title, resource.Status))
}

func pendingReason(booking *models.Booking, event *models.Event) string {
	if event.RequiresApproval {
		return "organizer approval"
	}
	if booking.TotalAmount > 0 {
		return "payment"
	}
	return "confirmation"
}
