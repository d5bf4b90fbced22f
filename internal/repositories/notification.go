package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-management-platform/internal/models"
)

// NotificationRepository handles notification data operations
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, priority, title, message, is_read, email_sent, expires_at, created_at`

// Create creates a new notification
func (r *NotificationRepository) Create(n *models.Notification) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, priority, title, message, is_read, email_sent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + notificationColumns

	created := &models.Notification{}
	err := r.db.QueryRow(
		query,
		n.UserID,
		n.Type,
		n.Priority,
		n.Title,
		n.Message,
		n.IsRead,
		n.EmailSent,
		n.ExpiresAt,
		time.Now(),
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Type,
		&created.Priority,
		&created.Title,
		&created.Message,
		&created.IsRead,
		&created.EmailSent,
		&created.ExpiresAt,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return created, nil
}

// GetByUserID retrieves a user's notifications, newest first
func (r *NotificationRepository) GetByUserID(userID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}

	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Priority,
			&n.Title,
			&n.Message,
			&n.IsRead,
			&n.EmailSent,
			&n.ExpiresAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead marks a notification as read for the given user
func (r *NotificationRepository) MarkRead(id, userID int) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks all of a user's notifications as read
func (r *NotificationRepository) MarkAllRead(userID int) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// MarkEmailSent records that the notification's email went out
func (r *NotificationRepository) MarkEmailSent(id int) error {
	result, err := r.db.Exec(`UPDATE notifications SET email_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotificationNotFound
	}

	return nil
}

// GetPendingEmails retrieves unsent notifications that still warrant an
// email at the given time. Expired ones are skipped so stale alerts never
// go out.
func (r *NotificationRepository) GetPendingEmails(now time.Time, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE email_sent = FALSE
		AND priority IN ('high', 'urgent', 'critical')
		AND expires_at > $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.db.Query(query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending emails: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Priority,
			&n.Title,
			&n.Message,
			&n.IsRead,
			&n.EmailSent,
			&n.ExpiresAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// DeleteExpired removes notifications past their expiry at the given time
func (r *NotificationRepository) DeleteExpired(now time.Time) (int, error) {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
