package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-management-platform/internal/models"
)

// BookingRepository handles booking data operations
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookingSearchFilters represents filters for booking search
type BookingSearchFilters struct {
	UserID   int                  // Filter by user
	EventID  int                  // Filter by event
	Status   models.BookingStatus // Filter by status
	DateFrom *time.Time           // Bookings created from this date
	DateTo   *time.Time           // Bookings created before this date
	Limit    int                  // Number of results to return
	Offset   int                  // Number of results to skip
}

const bookingColumns = `id, booking_code, user_id, event_id, quantity, total_amount, status, notes,
		qr_code, payment_date, payment_method, payment_reference, checked_in_at, cancelled_at,
		refund_amount, refund_reference, refunded_at, expires_at, created_at, updated_at`

func (r *BookingRepository) scanBooking(row *sql.Row) (*models.Booking, error) {
	booking := &models.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.BookingCode,
		&booking.UserID,
		&booking.EventID,
		&booking.Quantity,
		&booking.TotalAmount,
		&booking.Status,
		&booking.Notes,
		&booking.QRCode,
		&booking.PaymentDate,
		&booking.PaymentMethod,
		&booking.PaymentRef,
		&booking.CheckedInAt,
		&booking.CancelledAt,
		&booking.RefundAmount,
		&booking.RefundRef,
		&booking.RefundedAt,
		&booking.ExpiresAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Create creates a new booking
func (r *BookingRepository) Create(booking *models.Booking) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (booking_code, user_id, event_id, quantity, total_amount, status, notes,
			qr_code, payment_date, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + bookingColumns

	now := time.Now()
	created, err := r.scanBooking(r.db.QueryRow(
		query,
		booking.BookingCode,
		booking.UserID,
		booking.EventID,
		booking.Quantity,
		booking.TotalAmount,
		booking.Status,
		booking.Notes,
		booking.QRCode,
		booking.PaymentDate,
		booking.ExpiresAt,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(id int) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// GetByCode retrieves a booking by its booking code
func (r *BookingRepository) GetByCode(code string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_code = $1`

	booking, err := r.scanBooking(r.db.QueryRow(query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by code: %w", err)
	}

	return booking, nil
}

// Update persists the booking's mutable fields
func (r *BookingRepository) Update(booking *models.Booking) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $2, notes = $3, qr_code = $4, payment_date = $5, payment_method = $6,
			payment_reference = $7, checked_in_at = $8, cancelled_at = $9, refund_amount = $10,
			refund_reference = $11, refunded_at = $12, expires_at = $13, updated_at = $14
		WHERE id = $1
		RETURNING ` + bookingColumns

	updated, err := r.scanBooking(r.db.QueryRow(
		query,
		booking.ID,
		booking.Status,
		booking.Notes,
		booking.QRCode,
		booking.PaymentDate,
		booking.PaymentMethod,
		booking.PaymentRef,
		booking.CheckedInAt,
		booking.CancelledAt,
		booking.RefundAmount,
		booking.RefundRef,
		booking.RefundedAt,
		booking.ExpiresAt,
		time.Now(),
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	return updated, nil
}

// UpdateStatus transitions the booking to the given status, but only when
// the booking currently holds the expected status. The guard keeps
// concurrent sweeps and user actions from racing each other.
func (r *BookingRepository) UpdateStatus(id int, from, to models.BookingStatus) error {
	query := `UPDATE bookings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, id, from, to, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrInvalidTransition
	}

	return nil
}

// Search retrieves bookings matching the given filters
func (r *BookingRepository) Search(filters BookingSearchFilters) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.UserID > 0 {
		argCount++
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filters.UserID)
	}
	if filters.EventID > 0 {
		argCount++
		query += fmt.Sprintf(" AND event_id = $%d", argCount)
		args = append(args, filters.EventID)
	}
	if filters.Status != "" {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
	}
	if filters.DateFrom != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at < $%d", argCount)
		args = append(args, *filters.DateTo)
	}

	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.BookingCode,
			&booking.UserID,
			&booking.EventID,
			&booking.Quantity,
			&booking.TotalAmount,
			&booking.Status,
			&booking.Notes,
			&booking.QRCode,
			&booking.PaymentDate,
			&booking.PaymentMethod,
			&booking.PaymentRef,
			&booking.CheckedInAt,
			&booking.CancelledAt,
			&booking.RefundAmount,
			&booking.RefundRef,
			&booking.RefundedAt,
			&booking.ExpiresAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// CountActiveTickets sums the tickets a user holds for an event across
// bookings that still occupy inventory. Used to enforce per-user limits.
func (r *BookingRepository) CountActiveTickets(userID, eventID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM bookings
		WHERE user_id = $1 AND event_id = $2 AND status IN ('pending', 'confirmed')`

	var total int
	if err := r.db.QueryRow(query, userID, eventID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count active tickets: %w", err)
	}

	return total, nil
}

// GetExpiredPending retrieves pending bookings whose hold lapsed before
// the given time.
func (r *BookingRepository) GetExpiredPending(before time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at ASC`

	rows, err := r.db.Query(query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.BookingCode,
			&booking.UserID,
			&booking.EventID,
			&booking.Quantity,
			&booking.TotalAmount,
			&booking.Status,
			&booking.Notes,
			&booking.QRCode,
			&booking.PaymentDate,
			&booking.PaymentMethod,
			&booking.PaymentRef,
			&booking.CheckedInAt,
			&booking.CancelledAt,
			&booking.RefundAmount,
			&booking.RefundRef,
			&booking.RefundedAt,
			&booking.ExpiresAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// HasActiveForEvent reports whether any bookings still occupy inventory
// for the event.
func (r *BookingRepository) HasActiveForEvent(eventID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE event_id = $1 AND status IN ('pending', 'confirmed')
		)`

	var exists bool
	if err := r.db.QueryRow(query, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active bookings: %w", err)
	}

	return exists, nil
}
