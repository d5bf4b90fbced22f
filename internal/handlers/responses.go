package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"event-management-platform/internal/models"
	"event-management-platform/internal/services"
)

// errorResponse is the JSON body returned for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError maps a service error onto an HTTP status and JSON body
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrResourceNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrInsufficientTickets),
		errors.Is(err, models.ErrEventNotBookable),
		errors.Is(err, models.ErrTicketLimit),
		errors.Is(err, models.ErrOrganizerBooking),
		errors.Is(err, models.ErrNotCancellable),
		errors.Is(err, models.ErrNotPending),
		errors.Is(err, models.ErrCannotCheckIn),
		errors.Is(err, models.ErrPaymentNotRequired),
		errors.Is(err, models.ErrNotRefundPending),
		errors.Is(err, models.ErrResourceInUse),
		errors.Is(err, models.ErrActiveBookings),
		errors.Is(err, models.ErrDeadlinePassed):
		status = http.StatusConflict
	case errors.Is(err, models.ErrValidation):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
