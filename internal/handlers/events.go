package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"event-management-platform/internal/middleware"
	"event-management-platform/internal/models"
	"event-management-platform/internal/repositories"
	"event-management-platform/internal/services"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := repositories.EventSearchFilters{
		Query: r.URL.Query().Get("q"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filters.Status = models.EventStatus(status)
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		filters.Offset = offset
	}

	events, err := h.eventService.SearchEvents(filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	event, err := h.eventService.GetEvent(id, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.EventCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	event, err := h.eventService.CreateEvent(user, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// Update handles PUT /events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())

	var req models.EventUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	event, err := h.eventService.UpdateEvent(id, user, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if err := h.eventService.DeleteEvent(id, user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Transition handles POST /events/{id}/{action} for lifecycle changes
func (h *EventHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())

	var event *models.Event
	switch chi.URLParam(r, "action") {
	case "submit":
		event, err = h.eventService.SubmitForApproval(id, user)
	case "publish":
		event, err = h.eventService.PublishEvent(id, user)
	case "pause":
		event, err = h.eventService.PauseEvent(id, user)
	case "postpone":
		event, err = h.eventService.PostponeEvent(id, user)
	case "complete":
		event, err = h.eventService.CompleteEvent(id, user)
	case "cancel":
		event, err = h.eventService.CancelEvent(id, user)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown action"})
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// MyEvents handles GET /organizer/events
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	events, err := h.eventService.GetOrganizerEvents(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
