package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-management-platform/internal/models"
)

// EventRepository handles event data operations, including the ticket
// inventory counters that bookings reserve against.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventSearchFilters represents filters for event search
type EventSearchFilters struct {
	OrganizerID int                // Filter by organizer
	Status      models.EventStatus // Filter by status
	Query       string             // Match in title or location
	From        *time.Time         // Events starting from this date
	To          *time.Time         // Events starting before this date
	PublicOnly  bool               // Only publicly listed events
	Limit       int                // Number of results to return
	Offset      int                // Number of results to skip
}

const eventColumns = `id, title, description, start_date, end_date, location, capacity, available_tickets,
		price, status, is_public, requires_approval, max_tickets_per_user, booking_deadline,
		cancellation_deadline, organizer_id, created_at, updated_at`

func (r *EventRepository) scanEvent(row *sql.Row) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.Capacity,
		&event.AvailableTickets,
		&event.Price,
		&event.Status,
		&event.IsPublic,
		&event.RequiresApproval,
		&event.MaxTicketsPerUser,
		&event.BookingDeadline,
		&event.CancellationDeadline,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create creates a new event. New events start as drafts with the full
// capacity available.
func (r *EventRepository) Create(organizerID int, req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	requiresApproval := false
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}
	maxTickets := req.MaxTicketsPerUser
	if maxTickets <= 0 {
		maxTickets = 10
	}

	query := `
		INSERT INTO events (title, description, start_date, end_date, location, capacity, available_tickets,
			price, status, is_public, requires_approval, max_tickets_per_user, booking_deadline,
			cancellation_deadline, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + eventColumns

	now := time.Now()
	event, err := r.scanEvent(r.db.QueryRow(
		query,
		req.Title,
		req.Description,
		req.StartDate,
		req.EndDate,
		req.Location,
		req.Capacity,
		req.Capacity, // all tickets start available
		req.Price,
		models.EventDraft,
		isPublic,
		requiresApproval,
		maxTickets,
		req.BookingDeadline,
		req.CancellationDeadline,
		organizerID,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := r.scanEvent(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// Update updates an event's editable fields
func (r *EventRepository) Update(id int, req *models.EventUpdateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	// Capacity changes keep the number of sold tickets constant, so the
	// available counter moves by the capacity delta and is clamped at zero.
	query := `
		UPDATE events
		SET title = $2, description = $3, start_date = $4, end_date = $5, location = $6,
			available_tickets = GREATEST(0, available_tickets + ($7 - capacity)), capacity = $7,
			price = $8,
			is_public = COALESCE($9, is_public),
			requires_approval = COALESCE($10, requires_approval),
			max_tickets_per_user = CASE WHEN $11 > 0 THEN $11 ELSE max_tickets_per_user END,
			booking_deadline = $12, cancellation_deadline = $13, updated_at = $14
		WHERE id = $1
		RETURNING ` + eventColumns

	event, err := r.scanEvent(r.db.QueryRow(
		query,
		id,
		req.Title,
		req.Description,
		req.StartDate,
		req.EndDate,
		req.Location,
		req.Capacity,
		req.Price,
		req.IsPublic,
		req.RequiresApproval,
		req.MaxTicketsPerUser,
		req.BookingDeadline,
		req.CancellationDeadline,
		time.Now(),
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// UpdateStatus updates only the event status
func (r *EventRepository) UpdateStatus(id int, status models.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrEventNotFound
	}

	return nil
}

// ReserveTickets atomically takes quantity tickets from the event's pool.
// The guard in the WHERE clause makes concurrent over-reservation
// impossible; a zero row count means not enough tickets remained.
func (r *EventRepository) ReserveTickets(eventID, quantity int) error {
	query := `
		UPDATE events
		SET available_tickets = available_tickets - $2, updated_at = $3
		WHERE id = $1 AND available_tickets >= $2`

	result, err := r.db.Exec(query, eventID, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("failed to reserve tickets: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the event is gone or the pool ran dry; distinguish them.
		var exists bool
		if err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)", eventID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check event existence: %w", err)
		}
		if !exists {
			return models.ErrEventNotFound
		}
		return models.ErrInsufficientTickets
	}

	return nil
}

// ReleaseTickets returns quantity tickets to the event's pool, never
// exceeding capacity.
func (r *EventRepository) ReleaseTickets(eventID, quantity int) error {
	query := `
		UPDATE events
		SET available_tickets = LEAST(capacity, available_tickets + $2), updated_at = $3
		WHERE id = $1`

	result, err := r.db.Exec(query, eventID, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("failed to release tickets: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrEventNotFound
	}

	return nil
}

// RecomputeAvailable rebuilds the available counter from the bookings that
// occupy inventory. Used to reconcile after bulk status changes.
func (r *EventRepository) RecomputeAvailable(eventID int) (*models.Event, error) {
	query := `
		UPDATE events
		SET available_tickets = GREATEST(0, capacity - COALESCE((
			SELECT SUM(quantity) FROM bookings
			WHERE event_id = events.id AND status IN ('pending', 'confirmed', 'used', 'no_show')
		), 0)), updated_at = $2
		WHERE id = $1
		RETURNING ` + eventColumns

	event, err := r.scanEvent(r.db.QueryRow(query, eventID, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to recompute availability: %w", err)
	}

	return event, nil
}

// Search retrieves events matching the given filters
func (r *EventRepository) Search(filters EventSearchFilters) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.OrganizerID > 0 {
		argCount++
		query += fmt.Sprintf(" AND organizer_id = $%d", argCount)
		args = append(args, filters.OrganizerID)
	}
	if filters.Status != "" {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
	}
	if filters.Query != "" {
		argCount++
		query += fmt.Sprintf(" AND (title ILIKE $%d OR location ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.Query+"%")
	}
	if filters.From != nil {
		argCount++
		query += fmt.Sprintf(" AND start_date >= $%d", argCount)
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		argCount++
		query += fmt.Sprintf(" AND start_date < $%d", argCount)
		args = append(args, *filters.To)
	}
	if filters.PublicOnly {
		query += " AND is_public = TRUE"
	}

	query += " ORDER BY start_date ASC"

	if filters.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.StartDate,
			&event.EndDate,
			&event.Location,
			&event.Capacity,
			&event.AvailableTickets,
			&event.Price,
			&event.Status,
			&event.IsPublic,
			&event.RequiresApproval,
			&event.MaxTicketsPerUser,
			&event.BookingDeadline,
			&event.CancellationDeadline,
			&event.OrganizerID,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// GetPublishedStartingBetween retrieves published events starting in the
// given window. The scheduler uses this for reminders.
func (r *EventRepository) GetPublishedStartingBetween(from, to time.Time) ([]*models.Event, error) {
	return r.Search(EventSearchFilters{
		Status: models.EventPublished,
		From:   &from,
		To:     &to,
	})
}

// Delete deletes an event. Only drafts without bookings should reach this.
func (r *EventRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrEventNotFound
	}

	return nil
}
