package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"event-management-platform/internal/middleware"
	"event-management-platform/internal/models"
	"event-management-platform/internal/services"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.BookingCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(user.ID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// Get handles GET /bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	booking, err := h.bookingService.GetBooking(id, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// List handles GET /bookings for the current user
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	bookings, err := h.bookingService.GetUserBookings(user.ID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// EventBookings handles GET /events/{id}/bookings
func (h *BookingHandler) EventBookings(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	bookings, err := h.bookingService.GetEventBookings(eventID, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// Confirm handles POST /bookings/{id}/confirm
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.bookingService.ConfirmBooking)
}

// Reject handles POST /bookings/{id}/reject
func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.bookingService.RejectBooking)
}

// Pay handles POST /bookings/{id}/pay
func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id"})
		return
	}

	var req struct {
		Method    string `json:"method"`
		Reference string `json:"reference"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	booking, err := h.bookingService.ProcessPayment(id, req.Method, req.Reference, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// Cancel handles POST /bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.bookingService.CancelBooking)
}

// Refund handles POST /bookings/{id}/refund
func (h *BookingHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id"})
		return
	}

	var req struct {
		Amount    int    `json:"amount"`
		Reference string `json:"reference"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	booking, err := h.bookingService.ProcessRefund(id, req.Amount, req.Reference, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// NoShow handles POST /bookings/{id}/no-show
func (h *BookingHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.applyAction(w, r, h.bookingService.MarkNoShow)
}

// CheckIn handles POST /check-in/{code}
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	user := middleware.GetUserFromContext(r.Context())

	booking, err := h.bookingService.CheckIn(code, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// applyAction runs a booking action keyed by the id URL parameter
func (h *BookingHandler) applyAction(w http.ResponseWriter, r *http.Request, action func(int, *models.User) (*models.Booking, error)) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id"})
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	booking, err := action(id, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}
