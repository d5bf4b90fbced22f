package models

import (
	"errors"
	"strings"
	"time"
)

// ResourceStatus represents the lifecycle status of an event resource
type ResourceStatus string

const (
	ResourceAvailable         ResourceStatus = "available"
	ResourceReserved          ResourceStatus = "reserved"
	ResourceInUse             ResourceStatus = "in_use"
	ResourceMaintenance       ResourceStatus = "maintenance"
	ResourceOutOfService      ResourceStatus = "out_of_service"
	ResourceInTransit         ResourceStatus = "in_transit"
	ResourceSetup             ResourceStatus = "setup"
	ResourceTeardown          ResourceStatus = "teardown"
	ResourceLost              ResourceStatus = "lost"
	ResourceRetired           ResourceStatus = "retired"
	ResourcePendingInspection ResourceStatus = "pending_inspection"
	ResourceCleaning          ResourceStatus = "cleaning"
)

// resourceTransitions defines the allowed status transitions for resources.
// Retired is terminal.
var resourceTransitions = map[ResourceStatus][]ResourceStatus{
	ResourceAvailable:         {ResourceReserved, ResourceMaintenance, ResourceOutOfService, ResourcePendingInspection},
	ResourceReserved:          {ResourceAvailable, ResourceInUse, ResourceSetup, ResourceInTransit},
	ResourceInUse:             {ResourceTeardown, ResourceAvailable, ResourceMaintenance},
	ResourceMaintenance:       {ResourceAvailable, ResourceOutOfService, ResourcePendingInspection},
	ResourceOutOfService:      {ResourceMaintenance, ResourceRetired, ResourcePendingInspection},
	ResourceInTransit:         {ResourceAvailable, ResourceSetup, ResourceLost},
	ResourceSetup:             {ResourceInUse, ResourceAvailable, ResourceMaintenance},
	ResourceTeardown:          {ResourceAvailable, ResourceCleaning, ResourceMaintenance},
	ResourceLost:              {ResourceAvailable, ResourceRetired},
	ResourceRetired:           {},
	ResourcePendingInspection: {ResourceAvailable, ResourceMaintenance, ResourceOutOfService},
	ResourceCleaning:          {ResourceAvailable, ResourceMaintenance},
}

// CanTransitionTo returns true if the status may change to newStatus
func (s ResourceStatus) CanTransitionTo(newStatus ResourceStatus) bool {
	for _, allowed := range resourceTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// IsOperational returns true if the resource can be allocated to events
func (s ResourceStatus) IsOperational() bool {
	return s == ResourceAvailable || s == ResourceReserved
}

// IsInUse returns true if the resource is actively committed to an event
func (s ResourceStatus) IsInUse() bool {
	return s == ResourceReserved || s == ResourceInUse || s == ResourceSetup || s == ResourceTeardown
}

// NeedsAttention returns true if the resource requires operator action
func (s ResourceStatus) NeedsAttention() bool {
	return s == ResourceMaintenance || s == ResourceOutOfService ||
		s == ResourcePendingInspection || s == ResourceLost
}

// IsFinal returns true if no further transitions are permitted
func (s ResourceStatus) IsFinal() bool {
	return s == ResourceRetired
}

// ResourceType categorizes event resources
type ResourceType string

const (
	ResourceAudioVisual   ResourceType = "audio_visual"
	ResourceLighting      ResourceType = "lighting"
	ResourceFurniture     ResourceType = "furniture"
	ResourceDecoration    ResourceType = "decoration"
	ResourceCatering      ResourceType = "catering"
	ResourceEquipment     ResourceType = "equipment"
	ResourceTransport     ResourceType = "transport"
	ResourceStaff         ResourceType = "staff"
	ResourceConstruction  ResourceType = "construction"
	ResourceStage         ResourceType = "stage"
	ResourceSecurity      ResourceType = "security"
	ResourceTechnology    ResourceType = "technology"
	ResourceCleaningCrew  ResourceType = "cleaning"
	ResourceEntertainment ResourceType = "entertainment"
	ResourceOther         ResourceType = "other"
)

// validResourceTypes lists every accepted resource type
var validResourceTypes = []ResourceType{
	ResourceAudioVisual, ResourceLighting, ResourceFurniture, ResourceDecoration,
	ResourceCatering, ResourceEquipment, ResourceTransport, ResourceStaff,
	ResourceConstruction, ResourceStage, ResourceSecurity, ResourceTechnology,
	ResourceCleaningCrew, ResourceEntertainment, ResourceOther,
}

// IsValid returns true if the resource type is one of the accepted values
func (t ResourceType) IsValid() bool {
	for _, valid := range validResourceTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// RequiresDelivery returns true if the resource type is physically transported
func (t ResourceType) RequiresDelivery() bool {
	switch t {
	case ResourceStaff, ResourceSecurity, ResourceEntertainment, ResourceCleaningCrew:
		return false
	default:
		return true
	}
}

// RequiresSetup returns true if the resource type needs on-site setup
func (t ResourceType) RequiresSetup() bool {
	switch t {
	case ResourceAudioVisual, ResourceLighting, ResourceStage, ResourceConstruction, ResourceTechnology:
		return true
	default:
		return false
	}
}

// EventResource represents a resource allocated to an event
type EventResource struct {
	ID           int            `json:"id" db:"id"`
	EventID      int            `json:"event_id" db:"event_id"`
	Name         string         `json:"name" db:"name"`
	Description  string         `json:"description" db:"description"`
	Type         ResourceType   `json:"type" db:"type"`
	Status       ResourceStatus `json:"status" db:"status"`
	Quantity     int            `json:"quantity" db:"quantity"`
	UnitCost     int            `json:"unit_cost" db:"unit_cost"`   // Amount in cents
	TotalCost    int            `json:"total_cost" db:"total_cost"` // Amount in cents
	Supplier     string         `json:"supplier" db:"supplier"`
	DeliveryDate *time.Time     `json:"delivery_date" db:"delivery_date"`
	ReturnDate   *time.Time     `json:"return_date" db:"return_date"`
	Notes        string         `json:"notes" db:"notes"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	// Related data
	Event *Event `json:"event,omitempty"`
}

// ResourceCreateRequest represents the data needed to allocate a resource
type ResourceCreateRequest struct {
	EventID      int          `json:"event_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Type         ResourceType `json:"type"`
	Quantity     int          `json:"quantity"`
	UnitCost     int          `json:"unit_cost"`
	Supplier     string       `json:"supplier"`
	DeliveryDate *time.Time   `json:"delivery_date"`
	ReturnDate   *time.Time   `json:"return_date"`
	Notes        string       `json:"notes"`
}

// ResourceUpdateRequest represents the data that can be updated for a resource
type ResourceUpdateRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Type         ResourceType `json:"type"`
	Quantity     int          `json:"quantity"`
	UnitCost     int          `json:"unit_cost"`
	Supplier     string       `json:"supplier"`
	DeliveryDate *time.Time   `json:"delivery_date"`
	ReturnDate   *time.Time   `json:"return_date"`
	Notes        string       `json:"notes"`
}

// ResourceDatesRequest represents a delivery and return reschedule
type ResourceDatesRequest struct {
	DeliveryDate *time.Time `json:"delivery_date"`
	ReturnDate   *time.Time `json:"return_date"`
}

// Validate validates the rescheduled date range
func (req *ResourceDatesRequest) Validate() error {
	return validateResourceDates(req.DeliveryDate, req.ReturnDate)
}

// Validate validates resource creation data
func (req *ResourceCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	return validateResourceData(req.Name, req.Type, req.Quantity, req.UnitCost, req.DeliveryDate, req.ReturnDate)
}

// Validate validates resource update data
func (req *ResourceUpdateRequest) Validate() error {
	return validateResourceData(req.Name, req.Type, req.Quantity, req.UnitCost, req.DeliveryDate, req.ReturnDate)
}

// validateResourceData validates the fields shared by create and update requests
func validateResourceData(name string, resourceType ResourceType, quantity, unitCost int, deliveryDate, returnDate *time.Time) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}

	if len(name) > 100 {
		return errors.New("name must be less than 100 characters")
	}

	if !resourceType.IsValid() {
		return errors.New("resource type is invalid")
	}

	if quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}

	if unitCost < 0 {
		return errors.New("unit cost cannot be negative")
	}

	return validateResourceDates(deliveryDate, returnDate)
}

// validateResourceDates checks that the delivery and return dates form a
// valid range when both are set
func validateResourceDates(deliveryDate, returnDate *time.Time) error {
	if deliveryDate != nil && returnDate != nil && deliveryDate.After(*returnDate) {
		return errors.New("delivery date must be on or before the return date")
	}
	return nil
}

// CalculateTotalCost recomputes the total cost from quantity and unit cost
func (r *EventResource) CalculateTotalCost() {
	r.TotalCost = r.UnitCost * r.Quantity
}

// IsOverdue returns true if the resource has not been returned by its
// return date at the given time
func (r *EventResource) IsOverdue(now time.Time) bool {
	if r.ReturnDate == nil {
		return false
	}
	return r.Status.IsInUse() && now.After(*r.ReturnDate)
}

// TotalCostInCurrency returns the total cost in the main currency as a float
func (r *EventResource) TotalCostInCurrency() float64 {
	return float64(r.TotalCost) / 100.0
}
