package services

import (
	"fmt"
	"time"

	"event-management-platform/internal/clock"
	"event-management-platform/internal/models"
)

// ResourceRepository interface for resource data operations
type ResourceRepository interface {
	Create(req *models.ResourceCreateRequest) (*models.EventResource, error)
	GetByID(id int) (*models.EventResource, error)
	GetByEventID(eventID int) ([]*models.EventResource, error)
	Update(id int, req *models.ResourceUpdateRequest) (*models.EventResource, error)
	UpdateDates(id int, deliveryDate, returnDate *time.Time) (*models.EventResource, error)
	UpdateStatus(id int, from, to models.ResourceStatus) error
	GetOverdue(before time.Time) ([]*models.EventResource, error)
	Delete(id int) error
	TotalCostForEvent(eventID int) (int, error)
}

// ResourceEventRepository interface for the event lookups resources need
type ResourceEventRepository interface {
	GetByID(id int) (*models.Event, error)
}

// ResourceNotifier delivers resource attention notifications
type ResourceNotifier interface {
	NotifyResourceAttention(resource *models.EventResource, event *models.Event)
}

// ResourceService handles resource allocation and lifecycle for events
type ResourceService struct {
	resourceRepo ResourceRepository
	eventRepo    ResourceEventRepository
	notifier     ResourceNotifier
	clock        clock.Clock
}

// NewResourceService creates a new resource service
func NewResourceService(resourceRepo ResourceRepository, eventRepo ResourceEventRepository, notifier ResourceNotifier, clk clock.Clock) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
		eventRepo:    eventRepo,
		notifier:     notifier,
		clock:        clk,
	}
}

// AllocateResource attaches a resource to an event. Only users who manage
// the event and hold resource permissions may allocate.
func (s *ResourceService) AllocateResource(requester *models.User, req *models.ResourceCreateRequest) (*models.EventResource, error) {
	if !requester.HasPermission(models.PermissionManageResources) {
		return nil, models.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(req.EventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}
	if event.Status.IsFinal() {
		return nil, models.ErrInvalidTransition
	}

	return s.resourceRepo.Create(req)
}

// GetResource retrieves a resource with its event attached
func (s *ResourceService) GetResource(id int, requester *models.User) (*models.EventResource, error) {
	resource, err := s.resourceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(resource.EventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	resource.Event = event
	return resource, nil
}

// GetEventResources retrieves all resources allocated to an event
func (s *ResourceService) GetEventResources(eventID int, requester *models.User) ([]*models.EventResource, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	return s.resourceRepo.GetByEventID(eventID)
}

// UpdateResource updates a resource's details and recomputes its total cost
func (s *ResourceService) UpdateResource(id int, requester *models.User, req *models.ResourceUpdateRequest) (*models.EventResource, error) {
	resource, err := s.resourceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(resource.EventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	return s.resourceRepo.Update(id, req)
}

// UpdateResourceDates reschedules a resource's delivery and return dates
func (s *ResourceService) UpdateResourceDates(id int, requester *models.User, req *models.ResourceDatesRequest) (*models.EventResource, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	resource, err := s.resourceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(resource.EventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	return s.resourceRepo.UpdateDates(id, req.DeliveryDate, req.ReturnDate)
}

// TransitionResource moves a resource to a new lifecycle status. Moving a
// resource into maintenance or out of service alerts the event's organizer.
func (s *ResourceService) TransitionResource(id int, requester *models.User, to models.ResourceStatus) (*models.EventResource, error) {
	resource, err := s.resourceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(resource.EventID)
	if err != nil {
		return nil, err
	}
	if !requester.CanManageEvent(event) {
		return nil, models.ErrForbidden
	}

	if !resource.Status.CanTransitionTo(to) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.resourceRepo.UpdateStatus(id, resource.Status, to); err != nil {
		return nil, err
	}

	resource.Status = to
	if to == models.ResourceMaintenance || to == models.ResourceOutOfService {
		resource.Event = event
		s.notifier.NotifyResourceAttention(resource, event)
	}
	return resource, nil
}

// ReleaseResource removes a resource allocation. Resources committed to an
// event must be brought back first.
func (s *ResourceService) ReleaseResource(id int, requester *models.User) error {
	resource, err := s.resourceRepo.GetByID(id)
	if err != nil {
		return err
	}

	event, err := s.eventRepo.GetByID(resource.EventID)
	if err != nil {
		return err
	}
	if !requester.CanManageEvent(event) {
		return models.ErrForbidden
	}

	if resource.Status.IsInUse() {
		return models.ErrResourceInUse
	}

	return s.resourceRepo.Delete(id)
}

// GetOverdueResources lists committed resources past their return date
func (s *ResourceService) GetOverdueResources() ([]*models.EventResource, error) {
	return s.resourceRepo.GetOverdue(s.clock.Now())
}

// EventResourceCost sums the total cost of an event's resources
func (s *ResourceService) EventResourceCost(eventID int, requester *models.User) (int, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return 0, err
	}
	if !requester.CanManageEvent(event) {
		return 0, models.ErrForbidden
	}

	return s.resourceRepo.TotalCostForEvent(eventID)
}
