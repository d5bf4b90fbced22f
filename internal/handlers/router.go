package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"event-management-platform/internal/middleware"
	"event-management-platform/internal/models"
)

// Services bundles everything the router needs
type Services struct {
	Events        *EventHandler
	Bookings      *BookingHandler
	Resources     *ResourceHandler
	Users         *UserHandler
	Notifications *NotificationHandler
	Auth          *middleware.AuthMiddleware
}

// NewRouter builds the HTTP routing table
func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware)
	r.Use(s.Auth.LoadUser)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/register", s.Users.Register)
	r.Get("/events", s.Events.List)
	r.Get("/events/{id}", s.Events.Get)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequireAuth)

		r.Get("/me", s.Users.Me)

		r.Post("/bookings", s.Bookings.Create)
		r.Get("/bookings", s.Bookings.List)
		r.Get("/bookings/{id}", s.Bookings.Get)
		r.Post("/bookings/{id}/pay", s.Bookings.Pay)
		r.Post("/bookings/{id}/cancel", s.Bookings.Cancel)

		r.Get("/notifications", s.Notifications.List)
		r.Post("/notifications/{id}/read", s.Notifications.MarkRead)
		r.Post("/notifications/read-all", s.Notifications.MarkAllRead)
	})

	// Event management
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequirePermission(models.PermissionManageEvents))

		r.Post("/events", s.Events.Create)
		r.Put("/events/{id}", s.Events.Update)
		r.Delete("/events/{id}", s.Events.Delete)
		r.Post("/events/{id}/{action}", s.Events.Transition)
		r.Get("/organizer/events", s.Events.MyEvents)
		r.Get("/events/{id}/bookings", s.Bookings.EventBookings)
	})

	// Booking management (staff and above)
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequirePermission(models.PermissionManageBookings))

		r.Post("/bookings/{id}/confirm", s.Bookings.Confirm)
		r.Post("/bookings/{id}/reject", s.Bookings.Reject)
		r.Post("/bookings/{id}/refund", s.Bookings.Refund)
		r.Post("/bookings/{id}/no-show", s.Bookings.NoShow)
		r.Post("/check-in/{code}", s.Bookings.CheckIn)
	})

	// Resource management
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequirePermission(models.PermissionManageResources))

		r.Post("/resources", s.Resources.Create)
		r.Get("/resources/overdue", s.Resources.Overdue)
		r.Get("/resources/{id}", s.Resources.Get)
		r.Put("/resources/{id}", s.Resources.Update)
		r.Put("/resources/{id}/dates", s.Resources.UpdateDates)
		r.Post("/resources/{id}/status", s.Resources.Transition)
		r.Delete("/resources/{id}", s.Resources.Delete)
		r.Get("/events/{id}/resources", s.Resources.EventResources)
		r.Get("/events/{id}/resources/cost", s.Resources.EventCost)
	})

	// Administration
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequirePermission(models.PermissionManageUsers))

		r.Post("/admin/users", s.Users.CreateUser)
		r.Put("/admin/users/{id}/active", s.Users.SetActive)
	})

	return r
}
