package services

import (
	"fmt"
	"sync"
	"time"

	"event-management-platform/internal/models"
	"event-management-platform/internal/repositories"
)

// Mock event repository backed by a map. The mutex keeps the inventory
// operations atomic so concurrency tests behave like the real database.
type mockEventRepo struct {
	mu     sync.Mutex
	events map[int]*models.Event
	nextID int

	// When set, RecomputeAvailable rebuilds availability from these
	// bookings the way the real repository does.
	bookings *mockBookingRepo

	updateStatusError error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{
		events: make(map[int]*models.Event),
		nextID: 1,
	}
}

func (m *mockEventRepo) add(event *models.Event) *models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.ID == 0 {
		event.ID = m.nextID
		m.nextID++
	} else if event.ID >= m.nextID {
		m.nextID = event.ID + 1
	}
	m.events[event.ID] = event
	return event
}

func (m *mockEventRepo) Create(organizerID int, req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	maxTickets := req.MaxTicketsPerUser
	if maxTickets <= 0 {
		maxTickets = 10
	}

	return m.add(&models.Event{
		Title:             req.Title,
		Description:       req.Description,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Location:          req.Location,
		Capacity:          req.Capacity,
		AvailableTickets:  req.Capacity,
		Price:             req.Price,
		Status:            models.EventDraft,
		IsPublic:          req.IsPublic == nil || *req.IsPublic,
		RequiresApproval:  req.RequiresApproval != nil && *req.RequiresApproval,
		MaxTicketsPerUser: maxTickets,
		BookingDeadline:   req.BookingDeadline,
		OrganizerID:       organizerID,
	}), nil
}

func (m *mockEventRepo) GetByID(id int) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (m *mockEventRepo) Update(id int, req *models.EventUpdateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}

	sold := event.Capacity - event.AvailableTickets
	event.Title = req.Title
	event.Description = req.Description
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Location = req.Location
	event.Capacity = req.Capacity
	event.AvailableTickets = req.Capacity - sold
	if event.AvailableTickets < 0 {
		event.AvailableTickets = 0
	}
	event.Price = req.Price

	copied := *event
	return &copied, nil
}

func (m *mockEventRepo) UpdateStatus(id int, status models.EventStatus) error {
	if m.updateStatusError != nil {
		return m.updateStatusError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[id]
	if !ok {
		return models.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (m *mockEventRepo) ReserveTickets(eventID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	if event.AvailableTickets < quantity {
		return models.ErrInsufficientTickets
	}
	event.AvailableTickets -= quantity
	return nil
}

func (m *mockEventRepo) ReleaseTickets(eventID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	event.AvailableTickets += quantity
	if event.AvailableTickets > event.Capacity {
		event.AvailableTickets = event.Capacity
	}
	return nil
}

func (m *mockEventRepo) RecomputeAvailable(eventID int) (*models.Event, error) {
	if m.bookings == nil {
		return m.GetByID(eventID)
	}

	occupied := 0
	m.bookings.mu.Lock()
	for _, booking := range m.bookings.bookings {
		if booking.EventID == eventID && booking.Status.OccupiesInventory() {
			occupied += booking.Quantity
		}
	}
	m.bookings.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[eventID]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	event.AvailableTickets = event.Capacity - occupied
	if event.AvailableTickets < 0 {
		event.AvailableTickets = 0
	}
	copied := *event
	return &copied, nil
}

func (m *mockEventRepo) Search(filters repositories.EventSearchFilters) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []*models.Event
	for _, event := range m.events {
		if filters.OrganizerID > 0 && event.OrganizerID != filters.OrganizerID {
			continue
		}
		if filters.Status != "" && event.Status != filters.Status {
			continue
		}
		if filters.PublicOnly && !event.IsPublic {
			continue
		}
		copied := *event
		results = append(results, &copied)
	}
	return results, nil
}

func (m *mockEventRepo) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

// Mock booking repository backed by a map
type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[int]*models.Booking
	nextID   int

	createError error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		bookings: make(map[int]*models.Booking),
		nextID:   1,
	}
}

func (m *mockBookingRepo) add(booking *models.Booking) *models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	if booking.ID == 0 {
		booking.ID = m.nextID
		m.nextID++
	} else if booking.ID >= m.nextID {
		m.nextID = booking.ID + 1
	}
	m.bookings[booking.ID] = booking
	return booking
}

func (m *mockBookingRepo) Create(booking *models.Booking) (*models.Booking, error) {
	if m.createError != nil {
		return nil, m.createError
	}

	copied := *booking
	copied.Event = nil
	copied.User = nil
	stored := m.add(&copied)

	result := *stored
	return &result, nil
}

func (m *mockBookingRepo) GetByID(id int) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *mockBookingRepo) GetByCode(code string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.bookings {
		if booking.BookingCode == code {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, models.ErrBookingNotFound
}

func (m *mockBookingRepo) Update(booking *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.bookings[booking.ID]
	if !ok {
		return nil, models.ErrBookingNotFound
	}

	copied := *booking
	copied.Event = nil
	copied.User = nil
	copied.CreatedAt = stored.CreatedAt
	m.bookings[booking.ID] = &copied

	result := copied
	return &result, nil
}

func (m *mockBookingRepo) UpdateStatus(id int, from, to models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok || booking.Status != from {
		return models.ErrInvalidTransition
	}
	booking.Status = to
	return nil
}

func (m *mockBookingRepo) Search(filters repositories.BookingSearchFilters) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []*models.Booking
	for _, booking := range m.bookings {
		if filters.UserID > 0 && booking.UserID != filters.UserID {
			continue
		}
		if filters.EventID > 0 && booking.EventID != filters.EventID {
			continue
		}
		if filters.Status != "" && booking.Status != filters.Status {
			continue
		}
		copied := *booking
		results = append(results, &copied)
	}
	return results, nil
}

func (m *mockBookingRepo) CountActiveTickets(userID, eventID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, booking := range m.bookings {
		if booking.UserID != userID || booking.EventID != eventID {
			continue
		}
		if booking.Status.IsActive() {
			total += booking.Quantity
		}
	}
	return total, nil
}

func (m *mockBookingRepo) GetExpiredPending(before time.Time) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []*models.Booking
	for _, booking := range m.bookings {
		if booking.Status == models.BookingPending && booking.ExpiresAt != nil && booking.ExpiresAt.Before(before) {
			copied := *booking
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (m *mockBookingRepo) HasActiveForEvent(eventID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.bookings {
		if booking.EventID == eventID && booking.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// Mock user repository backed by a map
type mockUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func (m *mockUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	} else if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	if user.Role == "" {
		user.Role = models.RoleClient
	}
	user.IsActive = true
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepo) Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	return m.add(&models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
	}), nil
}

func (m *mockUserRepo) GetByID(id int) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepo) SetActive(id int, active bool) error {
	user, ok := m.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

// Mock notifier that counts deliveries by kind
type mockNotifier struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{counts: make(map[string]int)}
}

func (m *mockNotifier) record(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[kind]++
}

func (m *mockNotifier) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[kind]
}

func (m *mockNotifier) NotifyBookingCreated(b *models.Booking, e *models.Event) { m.record("created") }
func (m *mockNotifier) NotifyBookingConfirmed(b *models.Booking, e *models.Event) {
	m.record("confirmed")
}
func (m *mockNotifier) NotifyBookingCancelled(b *models.Booking, e *models.Event, refund int) {
	m.record("cancelled")
}
func (m *mockNotifier) NotifyBookingRejected(b *models.Booking, e *models.Event) {
	m.record("rejected")
}
func (m *mockNotifier) NotifyBookingExpired(b *models.Booking, e *models.Event) { m.record("expired") }
func (m *mockNotifier) NotifyRefundProcessed(b *models.Booking, e *models.Event) {
	m.record("refunded")
}
func (m *mockNotifier) NotifyEventCancelled(e *models.Event, b *models.Booking) {
	m.record("event_cancelled")
}
func (m *mockNotifier) NotifyEventUpdated(e *models.Event, b *models.Booking) {
	m.record("event_updated")
}
func (m *mockNotifier) NotifyResourceAttention(r *models.EventResource, e *models.Event) {
	m.record("resource_attention")
}

// Mock notification repository backed by a slice
type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
	nextID        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{nextID: 1}
}

func (m *mockNotificationRepo) Create(n *models.Notification) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *n
	copied.ID = m.nextID
	m.nextID++
	m.notifications = append(m.notifications, &copied)

	result := copied
	return &result, nil
}

func (m *mockNotificationRepo) GetByUserID(userID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []*models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		results = append(results, &copied)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (m *mockNotificationRepo) MarkRead(id, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return models.ErrNotificationNotFound
}

func (m *mockNotificationRepo) MarkAllRead(userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkEmailSent(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id {
			n.EmailSent = true
			return nil
		}
	}
	return models.ErrNotificationNotFound
}

func (m *mockNotificationRepo) GetPendingEmails(now time.Time, limit int) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []*models.Notification
	for _, n := range m.notifications {
		if n.EmailSent || n.ExpiresAt.Before(now) {
			continue
		}
		switch n.Priority {
		case models.PriorityHigh, models.PriorityUrgent, models.PriorityCritical:
			copied := *n
			results = append(results, &copied)
		}
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (m *mockNotificationRepo) DeleteExpired(now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []*models.Notification
	removed := 0
	for _, n := range m.notifications {
		if n.ExpiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.notifications = kept
	return removed, nil
}
