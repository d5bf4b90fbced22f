package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"event-management-platform/internal/middleware"
	"event-management-platform/internal/models"
	"event-management-platform/internal/services"
)

// ResourceHandler handles resource-related HTTP requests
type ResourceHandler struct {
	resourceService *services.ResourceService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// Create handles POST /resources
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.ResourceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resource, err := h.resourceService.AllocateResource(user, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resource)
}

// Get handles GET /resources/{id}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	resource, err := h.resourceService.GetResource(id, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// EventResources handles GET /events/{id}/resources
func (h *ResourceHandler) EventResources(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	resources, err := h.resourceService.GetEventResources(eventID, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

// Update handles PUT /resources/{id}
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())

	var req models.ResourceUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resource, err := h.resourceService.UpdateResource(id, user, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// UpdateDates handles PUT /resources/{id}/dates
func (h *ResourceHandler) UpdateDates(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())

	var req models.ResourceDatesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resource, err := h.resourceService.UpdateResourceDates(id, user, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// Transition handles POST /resources/{id}/status
func (h *ResourceHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())

	var body struct {
		Status models.ResourceStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resource, err := h.resourceService.TransitionResource(id, user, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// Delete handles DELETE /resources/{id}
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if err := h.resourceService.ReleaseResource(id, user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Overdue handles GET /resources/overdue
func (h *ResourceHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resourceService.GetOverdueResources()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

// EventCost handles GET /events/{id}/resources/cost
func (h *ResourceHandler) EventCost(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	total, err := h.resourceService.EventResourceCost(eventID, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"total_cost": total})
}
