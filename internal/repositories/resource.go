package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-management-platform/internal/models"
)

// ResourceRepository handles event resource data operations
type ResourceRepository struct {
	db *sql.DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

const resourceColumns = `id, event_id, name, description, type, status, quantity, unit_cost, total_cost,
		supplier, delivery_date, return_date, notes, created_at, updated_at`

func (r *ResourceRepository) scanResource(row *sql.Row) (*models.EventResource, error) {
	resource := &models.EventResource{}
	err := row.Scan(
		&resource.ID,
		&resource.EventID,
		&resource.Name,
		&resource.Description,
		&resource.Type,
		&resource.Status,
		&resource.Quantity,
		&resource.UnitCost,
		&resource.TotalCost,
		&resource.Supplier,
		&resource.DeliveryDate,
		&resource.ReturnDate,
		&resource.Notes,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// Create allocates a new resource to an event
func (r *ResourceRepository) Create(req *models.ResourceCreateRequest) (*models.EventResource, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	query := `
		INSERT INTO event_resources (event_id, name, description, type, status, quantity, unit_cost,
			total_cost, supplier, delivery_date, return_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + resourceColumns

	now := time.Now()
	resource, err := r.scanResource(r.db.QueryRow(
		query,
		req.EventID,
		req.Name,
		req.Description,
		req.Type,
		models.ResourceAvailable,
		req.Quantity,
		req.UnitCost,
		req.UnitCost*req.Quantity,
		req.Supplier,
		req.DeliveryDate,
		req.ReturnDate,
		req.Notes,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return resource, nil
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(id int) (*models.EventResource, error) {
	query := `SELECT ` + resourceColumns + ` FROM event_resources WHERE id = $1`

	resource, err := r.scanResource(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return resource, nil
}

// GetByEventID retrieves all resources allocated to an event
func (r *ResourceRepository) GetByEventID(eventID int) ([]*models.EventResource, error) {
	query := `SELECT ` + resourceColumns + ` FROM event_resources WHERE event_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resources for event: %w", err)
	}
	defer rows.Close()

	var resources []*models.EventResource
	for rows.Next() {
		resource := &models.EventResource{}
		err := rows.Scan(
			&resource.ID,
			&resource.EventID,
			&resource.Name,
			&resource.Description,
			&resource.Type,
			&resource.Status,
			&resource.Quantity,
			&resource.UnitCost,
			&resource.TotalCost,
			&resource.Supplier,
			&resource.DeliveryDate,
			&resource.ReturnDate,
			&resource.Notes,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, resource)
	}

	return resources, rows.Err()
}

// Update updates a resource's editable fields and recomputes the total cost
func (r *ResourceRepository) Update(id int, req *models.ResourceUpdateRequest) (*models.EventResource, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	query := `
		UPDATE event_resources
		SET name = $2, description = $3, type = $4, quantity = $5, unit_cost = $6,
			total_cost = $5 * $6, supplier = $7, delivery_date = $8, return_date = $9,
			notes = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + resourceColumns

	resource, err := r.scanResource(r.db.QueryRow(
		query,
		id,
		req.Name,
		req.Description,
		req.Type,
		req.Quantity,
		req.UnitCost,
		req.Supplier,
		req.DeliveryDate,
		req.ReturnDate,
		req.Notes,
		time.Now(),
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}

	return resource, nil
}

// UpdateDates reschedules the resource's delivery and return dates
func (r *ResourceRepository) UpdateDates(id int, deliveryDate, returnDate *time.Time) (*models.EventResource, error) {
	query := `
		UPDATE event_resources
		SET delivery_date = $2, return_date = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + resourceColumns

	resource, err := r.scanResource(r.db.QueryRow(query, id, deliveryDate, returnDate, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to update resource dates: %w", err)
	}

	return resource, nil
}

// UpdateStatus transitions the resource to the given status, but only when
// it currently holds the expected status.
func (r *ResourceRepository) UpdateStatus(id int, from, to models.ResourceStatus) error {
	query := `UPDATE event_resources SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, id, from, to, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update resource status: %w", err)
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

// GetOverdue retrieves committed resources whose return date passed before
// the given time.
func (r *ResourceRepository) GetOverdue(before time.Time) ([]*models.EventResource, error) {
	query := `SELECT ` + resourceColumns + ` FROM event_resources
		WHERE return_date IS NOT NULL AND return_date < $1
		AND status IN ('reserved', 'in_use', 'setup', 'teardown')
		ORDER BY return_date ASC`

	rows, err := r.db.Query(query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue resources: %w", err)
	}
	defer rows.Close()

	var resources []*models.EventResource
	for rows.Next() {
		resource := &models.EventResource{}
		err := rows.Scan(
			&resource.ID,
			&resource.EventID,
			&resource.Name,
			&resource.Description,
			&resource.Type,
			&resource.Status,
			&resource.Quantity,
			&resource.UnitCost,
			&resource.TotalCost,
			&resource.Supplier,
			&resource.DeliveryDate,
			&resource.ReturnDate,
			&resource.Notes,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, resource)
	}

	return resources, rows.Err()
}

// Delete removes a resource allocation
func (r *ResourceRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM event_resources WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrResourceNotFound
	}

	return nil
}

// TotalCostForEvent sums the total cost of all resources allocated to an event
func (r *ResourceRepository) TotalCostForEvent(eventID int) (int, error) {
	query := `SELECT COALESCE(SUM(total_cost), 0) FROM event_resources WHERE event_id = $1`

	var total int
	if err := r.db.QueryRow(query, eventID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum resource costs: %w", err)
	}

	return total, nil
}
