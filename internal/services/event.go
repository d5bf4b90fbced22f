package services

import (
	"event-management-platform/internal/clock"
	"event-management-platform/internal/models"
	"event-management-platform/internal/repositories"
)

// EventRepository interface for event data operations
type EventRepository interface {
	Create(organizerID int, req *models.EventCreateRequest) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	Update(id int, req *models.EventUpdateRequest) (*models.Event, error)
	UpdateStatus(id int, status models.EventStatus) error
	Search(filters repositories.EventSearchFilters) ([]*models.Event, error)
	Delete(id int) error
}

// EventBookingRepository interface for the booking operations event
// lifecycle changes touch
type EventBookingRepository interface {
	Search(filters repositories.BookingSearchFilters) ([]*models.Booking, error)
	Update(booking *models.Booking) (*models.Booking, error)
	UpdateStatus(id int, from, to models.BookingStatus) error
	HasActiveForEvent(eventID int) (bool, error)
}

// EventNotifier delivers event lifecycle notifications
type EventNotifier interface {
	NotifyEventCancelled(event *models.Event, booking *models.Booking)
	NotifyEventUpdated(event *models.Event, booking *models.Booking)
}

// EventService handles event lifecycle and management
type EventService struct {
	eventRepo   EventRepository
	bookingRepo EventBookingRepository
	notifier    EventNotifier
	clock       clock.Clock
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, bookingRepo EventBookingRepository, notifier EventNotifier, clk clock.Clock) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		clock:       clk,
	}
}

// CreateEvent creates a new draft event owned by the creator
func (s *EventService) CreateEvent(creator *models.User, req *models.EventCreateRequest) (*models.Event, error) {
	if !creator.HasPermission(models.PermissionManageEvents) {
		return nil, models.ErrForbidden
	}

	return s.eventRepo.Create(creator.ID, req)
}

// GetEvent retrieves an event. Unlisted events are only visible to users
// who manage them.
func (s *EventService) GetEvent(id int, requester *models.User) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !event.IsPublic {
		if requester == nil || !requester.CanManageEvent(event) {
			return nil, models.ErrEventNotFound
		}
	}

	return event, nil
}

// SearchEvents retrieves public events matching the filters
func (s *EventService) SearchEvents(filters repositories.EventSearchFilters) ([]*models.Event, error) {
	filters.PublicOnly = true
	return s.eventRepo.Search(filters)
}

// GetOrganizerEvents retrieves all events owned by an organizer
func (s *EventService) GetOrganizerEvents(organizerID int) ([]*models.Event, error) {
	return s.eventRepo.Search(repositories.EventSearchFilters{OrganizerID: organizerID})
}

// UpdateEvent updates an event's details. Only editable statuses accept
// changes; bookers on the event are told about them.
func (s *EventService) UpdateEvent(id int, requester *models.User, req *models.EventUpdateRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}
	if !event.Status.IsEditable() {
		return nil, models.ErrInvalidTransition
	}

	updated, err := s.eventRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	s.notifyActiveBookers(updated, func(booking *models.Booking) {
		s.notifier.NotifyEventUpdated(updated, booking)
	})

	return updated, nil
}

// SubmitForApproval moves a draft into the approval queue
func (s *EventService) SubmitForApproval(id int, requester *models.User) (*models.Event, error) {
	return s.transition(id, requester, models.EventPendingApproval)
}

// PublishEvent opens an event for bookings. Approving a queued event is
// reserved for administrators; organizers publish their own drafts.
func (s *EventService) PublishEvent(id int, requester *models.User) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventPendingApproval && !requester.IsAdmin() {
		return nil, models.ErrForbidden
	}

	return s.transition(id, requester, models.EventPublished)
}

// PauseEvent temporarily closes a published event to new bookings
func (s *EventService) PauseEvent(id int, requester *models.User) (*models.Event, error) {
	return s.transition(id, requester, models.EventPaused)
}

// PostponeEvent flags a published event as postponed
func (s *EventService) PostponeEvent(id int, requester *models.User) (*models.Event, error) {
	return s.transition(id, requester, models.EventPostponed)
}

// CompleteEvent closes out an event that has taken place
func (s *EventService) CompleteEvent(id int, requester *models.User) (*models.Event, error) {
	return s.transition(id, requester, models.EventCompleted)
}

// CancelEvent cancels an event and unwinds its bookings. Bookings with
// money on them enter the refund queue with a full refund, free ones cancel
// outright, and every affected booker is notified.
func (s *EventService) CancelEvent(id int, requester *models.User) (*models.Event, error) {
	event, err := s.transition(id, requester, models.EventCancelled)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for _, status := range []models.BookingStatus{models.BookingPending, models.BookingConfirmed} {
		bookings, err := s.bookingRepo.Search(repositories.BookingSearchFilters{EventID: id, Status: status})
		if err != nil {
			return event, err
		}

		for _, booking := range bookings {
			if err := s.bookingRepo.UpdateStatus(booking.ID, status, models.BookingCancelled); err != nil {
				continue
			}
			booking.Status = models.BookingCancelled
			if booking.TotalAmount > 0 {
				if err := s.bookingRepo.UpdateStatus(booking.ID, models.BookingCancelled, models.BookingRefundPending); err != nil {
					continue
				}
				booking.Status = models.BookingRefundPending
				booking.RefundAmount = booking.TotalAmount
			}

			cancelledAt := now
			booking.CancelledAt = &cancelledAt
			booking.ExpiresAt = nil
			if _, err := s.bookingRepo.Update(booking); err != nil {
				continue
			}

			s.notifier.NotifyEventCancelled(event, booking)
		}
	}

	return event, nil
}

// DeleteEvent removes a draft event. Events that ever accepted bookings
// are cancelled instead of deleted.
func (s *EventService) DeleteEvent(id int, requester *models.User) error {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !requester.CanManageEvent(event) {
		return models.ErrForbidden
	}
	if event.Status != models.EventDraft {
		return models.ErrInvalidTransition
	}

	hasBookings, err := s.bookingRepo.HasActiveForEvent(id)
	if err != nil {
		return err
	}
	if hasBookings {
		return models.ErrActiveBookings
	}

	return s.eventRepo.Delete(id)
}

// transition applies a status change after permission and table checks
func (s *EventService) transition(id int, requester *models.User, to models.EventStatus) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}
	if !event.Status.CanTransitionTo(to) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.eventRepo.UpdateStatus(id, to); err != nil {
		return nil, err
	}

	event.Status = to
	return event, nil
}

// notifyActiveBookers runs fn for every booking still holding inventory
func (s *EventService) notifyActiveBookers(event *models.Event, fn func(*models.Booking)) {
	for _, status := range []models.BookingStatus{models.BookingPending, models.BookingConfirmed} {
		bookings, err := s.bookingRepo.Search(repositories.BookingSearchFilters{EventID: event.ID, Status: status})
		if err != nil {
			continue
		}
		for _, booking := range bookings {
			fn(booking)
		}
	}
}
