package services

import (
	"fmt"
	"time"

	"event-management-platform/internal/clock"
	"event-management-platform/internal/models"
	"event-management-platform/internal/repositories"
)

// BookingRepository interface for booking data operations
type BookingRepository interface {
	Create(booking *models.Booking) (*models.Booking, error)
	GetByID(id int) (*models.Booking, error)
	GetByCode(code string) (*models.Booking, error)
	Update(booking *models.Booking) (*models.Booking, error)
	UpdateStatus(id int, from, to models.BookingStatus) error
	Search(filters repositories.BookingSearchFilters) ([]*models.Booking, error)
	CountActiveTickets(userID, eventID int) (int, error)
	GetExpiredPending(before time.Time) ([]*models.Booking, error)
	HasActiveForEvent(eventID int) (bool, error)
}

// BookingEventRepository interface for the event lookups bookings need
type BookingEventRepository interface {
	GetByID(id int) (*models.Event, error)
}

// BookingUserRepository interface for the user lookups bookings need
type BookingUserRepository interface {
	GetByID(id int) (*models.User, error)
}

// Notifier delivers booking lifecycle notifications
type Notifier interface {
	NotifyBookingCreated(booking *models.Booking, event *models.Event)
	NotifyBookingConfirmed(booking *models.Booking, event *models.Event)
	NotifyBookingCancelled(booking *models.Booking, event *models.Event, refundAmount int)
	NotifyBookingRejected(booking *models.Booking, event *models.Event)
	NotifyBookingExpired(booking *models.Booking, event *models.Event)
	NotifyRefundProcessed(booking *models.Booking, event *models.Event)
}

// BookingService handles the booking lifecycle: creation against event
// inventory, confirmation, payment, cancellation with refunds, check-in,
// and hold expiry.
type BookingService struct {
	bookingRepo       BookingRepository
	eventRepo         BookingEventRepository
	userRepo          BookingUserRepository
	ledger            *TicketLedger
	notifier          Notifier
	clock             clock.Clock
	holdDuration      time.Duration
	defaultMaxTickets int
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo BookingRepository,
	eventRepo BookingEventRepository,
	userRepo BookingUserRepository,
	ledger *TicketLedger,
	notifier Notifier,
	clk clock.Clock,
	holdDuration time.Duration,
	defaultMaxTickets int,
) *BookingService {
	return &BookingService{
		bookingRepo:       bookingRepo,
		eventRepo:         eventRepo,
		userRepo:          userRepo,
		ledger:            ledger,
		notifier:          notifier,
		clock:             clk,
		holdDuration:      holdDuration,
		defaultMaxTickets: defaultMaxTickets,
	}
}

// CreateBooking books tickets for a user on an event. Tickets are reserved
// up front; bookings confirm immediately unless the event requires
// organizer approval, in which case they stay pending under a hold.
func (s *BookingService) CreateBooking(userID int, req *models.BookingCreateRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(req.EventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !event.CanBook(now) {
		return nil, models.ErrEventNotBookable
	}
	if event.OrganizerID == user.ID {
		return nil, models.ErrOrganizerBooking
	}

	maxTickets := event.MaxTicketsPerUser
	if maxTickets <= 0 {
		maxTickets = s.defaultMaxTickets
	}
	held, err := s.bookingRepo.CountActiveTickets(userID, event.ID)
	if err != nil {
		return nil, err
	}
	if held+req.Quantity > maxTickets {
		return nil, models.ErrTicketLimit
	}

	if err := s.ledger.Reserve(event.ID, req.Quantity); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingCode: models.GenerateBookingCode(),
		UserID:      userID,
		EventID:     event.ID,
		Quantity:    req.Quantity,
		TotalAmount: event.Price * req.Quantity,
		Status:      models.BookingPending,
		Notes:       req.Notes,
	}

	if event.RequiresApproval {
		expiresAt := now.Add(s.holdDuration)
		booking.ExpiresAt = &expiresAt
	} else {
		booking.Status = models.BookingConfirmed
		paymentDate := now
		booking.PaymentDate = &paymentDate
	}

	created, err := s.bookingRepo.Create(booking)
	if err != nil {
		// Hand the tickets back; the booking never existed.
		if releaseErr := s.ledger.Release(event.ID, req.Quantity); releaseErr != nil {
			return nil, fmt.Errorf("failed to create booking: %v (ticket release also failed: %w)", err, releaseErr)
		}
		return nil, err
	}

	if created.IsConfirmed() {
		created.QRCode = created.QRCodeValue()
		created, err = s.bookingRepo.Update(created)
		if err != nil {
			return nil, err
		}
		created.Event = event
		s.notifier.NotifyBookingConfirmed(created, event)
	} else {
		created.Event = event
		s.notifier.NotifyBookingCreated(created, event)
	}

	return created, nil
}

// GetBooking retrieves a booking, restricted to its owner and users who
// manage bookings for its event.
func (s *BookingService) GetBooking(bookingID int, requester *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requester.ID && !requester.CanManageBookings(event) {
		return nil, models.ErrForbidden
	}

	booking.Event = event
	return booking, nil
}

// GetUserBookings retrieves the requesting user's bookings
func (s *BookingService) GetUserBookings(userID int, limit, offset int) ([]*models.Booking, error) {
	return s.bookingRepo.Search(repositories.BookingSearchFilters{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
}

// GetEventBookings retrieves all bookings on an event for users who manage it
func (s *BookingService) GetEventBookings(eventID int, requester *models.User) ([]*models.Booking, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	return s.bookingRepo.Search(repositories.BookingSearchFilters{EventID: eventID})
}

// ConfirmBooking approves a pending booking. Only users who manage the
// event may approve.
func (s *BookingService) ConfirmBooking(bookingID int, approver *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if !approver.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	if !booking.IsPending() {
		return nil, models.ErrNotPending
	}

	booking.Status = models.BookingConfirmed
	booking.QRCode = booking.QRCodeValue()
	booking.ExpiresAt = nil
	if booking.TotalAmount == 0 && booking.PaymentDate == nil {
		now := s.clock.Now()
		booking.PaymentDate = &now
	}

	updated, err := s.bookingRepo.Update(booking)
	if err != nil {
		return nil, err
	}

	updated.Event = event
	s.notifier.NotifyBookingConfirmed(updated, event)
	return updated, nil
}

// RejectBooking declines a pending booking and returns its tickets
func (s *BookingService) RejectBooking(bookingID int, approver *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if !approver.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, models.BookingPending, models.BookingRejected); err != nil {
		return nil, models.ErrNotPending
	}

	booking.Status = models.BookingRejected
	cancelledAt := s.clock.Now()
	booking.CancelledAt = &cancelledAt
	booking.ExpiresAt = nil
	updated, err := s.bookingRepo.Update(booking)
	if err != nil {
		return nil, err
	}

	// The rejected row no longer occupies inventory; rebuild the counter
	// from the surviving bookings instead of adding the quantity back.
	if _, err := s.ledger.Reconcile(event.ID); err != nil {
		return nil, err
	}

	updated.Event = event
	s.notifier.NotifyBookingRejected(updated, event)
	return updated, nil
}

// ProcessPayment records payment on a pending booking and confirms it
func (s *BookingService) ProcessPayment(bookingID int, method, reference string, payer *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != payer.ID {
		return nil, models.ErrForbidden
	}
	if !booking.IsPending() || booking.TotalAmount == 0 {
		return nil, models.ErrPaymentNotRequired
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	booking.PaymentDate = &now
	booking.PaymentMethod = method
	booking.PaymentRef = reference
	booking.ExpiresAt = nil
	booking.Status = models.BookingConfirmed
	booking.QRCode = booking.QRCodeValue()

	updated, err := s.bookingRepo.Update(booking)
	if err != nil {
		return nil, err
	}

	updated.Event = event
	s.notifier.NotifyBookingConfirmed(updated, event)
	return updated, nil
}

// CancelBooking cancels a booking before the event's cancellation deadline.
// Paid bookings move on into the refund queue with a tiered refund amount;
// free ones stay cancelled. The tickets go back to the pool either way.
func (s *BookingService) CancelBooking(bookingID int, requester *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requester.ID && !requester.CanManageBookings(event) {
		return nil, models.ErrForbidden
	}
	booking.Event = event

	now := s.clock.Now()
	if !booking.CanBeCancelled(now) {
		if booking.Status == models.BookingPending || booking.Status == models.BookingConfirmed {
			return nil, models.ErrDeadlinePassed
		}
		return nil, models.ErrNotCancellable
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, booking.Status, models.BookingCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.BookingCancelled

	refundAmount := 0
	if booking.TotalAmount > 0 {
		refundAmount = booking.TotalAmount * booking.RefundPercent(now) / 100
		if err := s.bookingRepo.UpdateStatus(bookingID, models.BookingCancelled, models.BookingRefundPending); err != nil {
			return nil, err
		}
		booking.Status = models.BookingRefundPending
	}

	cancelledAt := now
	booking.CancelledAt = &cancelledAt
	booking.RefundAmount = refundAmount
	booking.ExpiresAt = nil
	updated, err := s.bookingRepo.Update(booking)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Release(event.ID, booking.Quantity); err != nil {
		return nil, err
	}

	updated.Event = event
	s.notifier.NotifyBookingCancelled(updated, event, refundAmount)
	return updated, nil
}

// ProcessRefund settles a booking waiting on its refund, recording the
// amount actually paid out and the processor's reference. Restricted to
// users who manage bookings for the event. An amount of zero keeps the
// refund amount computed at cancellation.
func (s *BookingService) ProcessRefund(bookingID int, amount int, reference string, processor *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if !processor.CanManageBookings(event) {
		return nil, models.ErrForbidden
	}

	if booking.Status != models.BookingRefundPending {
		return nil, models.ErrNotRefundPending
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, models.BookingRefundPending, models.BookingRefunded); err != nil {
		return nil, err
	}

	booking.Status = models.BookingRefunded
	if amount > 0 {
		booking.RefundAmount = amount
	}
	booking.RefundRef = reference
	refundedAt := s.clock.Now()
	booking.RefundedAt = &refundedAt

	updated, err := s.bookingRepo.Update(booking)
	if err != nil {
		return nil, err
	}

	updated.Event = event
	s.notifier.NotifyRefundProcessed(updated, event)
	return updated, nil
}

// CheckIn marks a confirmed booking as used inside the event's check-in
// window. Restricted to users who manage bookings for the event.
func (s *BookingService) CheckIn(bookingCode string, staff *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByCode(bookingCode)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if !staff.CanManageBookings(event) {
		return nil, models.ErrForbidden
	}
	booking.Event = event

	now := s.clock.Now()
	if !booking.CanCheckIn(now) {
		return nil, models.ErrCannotCheckIn
	}

	if err := s.bookingRepo.UpdateStatus(booking.ID, models.BookingConfirmed, models.BookingUsed); err != nil {
		return nil, err
	}

	booking.Status = models.BookingUsed
	checkedInAt := now
	booking.CheckedInAt = &checkedInAt
	return s.bookingRepo.Update(booking)
}

// MarkNoShow flags a confirmed booking whose holder never arrived. Only
// valid once the event has ended.
func (s *BookingService) MarkNoShow(bookingID int, staff *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(booking.EventID)
	if err != nil {
		return nil, err
	}
	if !staff.CanManageBookings(event) {
		return nil, models.ErrForbidden
	}
	if !event.HasEnded(s.clock.Now()) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, models.BookingConfirmed, models.BookingNoShow); err != nil {
		return nil, err
	}

	booking.Status = models.BookingNoShow
	booking.Event = event
	return booking, nil
}

// ProcessExpiredBookings expires pending bookings whose hold lapsed and
// returns their tickets to the pool. Safe to run repeatedly: the guarded
// status update makes each booking expire exactly once.
func (s *BookingService) ProcessExpiredBookings() (int, error) {
	now := s.clock.Now()
	expired, err := s.bookingRepo.GetExpiredPending(now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, booking := range expired {
		if err := s.bookingRepo.UpdateStatus(booking.ID, models.BookingPending, models.BookingExpired); err != nil {
			// Someone else already moved it; skip.
			continue
		}

		if err := s.ledger.Release(booking.EventID, booking.Quantity); err != nil {
			return count, fmt.Errorf("failed to release tickets for expired booking %d: %w", booking.ID, err)
		}

		booking.Status = models.BookingExpired
		if event, err := s.eventRepo.GetByID(booking.EventID); err == nil {
			booking.Event = event
			s.notifier.NotifyBookingExpired(booking, event)
		}
		count++
	}

	return count, nil
}
