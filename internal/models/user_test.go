package models

import (
	"testing"
)

func TestUser_HasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       UserRole
		permission string
		expected   bool
	}{
		{"admin manages events", RoleAdmin, PermissionManageEvents, true},
		{"admin manages users", RoleAdmin, PermissionManageUsers, true},
		{"admin moderates content", RoleAdmin, PermissionModerateContent, true},
		{"organizer manages events", RoleOrganizer, PermissionManageEvents, true},
		{"organizer manages resources", RoleOrganizer, PermissionManageResources, true},
		{"organizer cannot manage users", RoleOrganizer, PermissionManageUsers, false},
		{"staff manages bookings", RoleStaff, PermissionManageBookings, true},
		{"staff cannot manage events", RoleStaff, PermissionManageEvents, false},
		{"moderator moderates content", RoleModerator, PermissionModerateContent, true},
		{"moderator cannot manage bookings", RoleModerator, PermissionManageBookings, false},
		{"client has no management permissions", RoleClient, PermissionManageEvents, false},
		{"unknown permission", RoleAdmin, "fly_spaceships", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := User{Role: tt.role}
			result := user.HasPermission(tt.permission)
			if result != tt.expected {
				t.Errorf("HasPermission(%s, %s) = %v, expected %v", tt.role, tt.permission, result, tt.expected)
			}
		})
	}
}

func TestUser_CanManageEvent(t *testing.T) {
	event := Event{ID: 1, OrganizerID: 10}

	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"admin manages any event", User{ID: 99, Role: RoleAdmin}, true},
		{"organizer manages own event", User{ID: 10, Role: RoleOrganizer}, true},
		{"organizer cannot manage another's event", User{ID: 11, Role: RoleOrganizer}, false},
		{"client cannot manage own bookings' events", User{ID: 10, Role: RoleClient}, false},
		{"staff cannot manage events", User{ID: 10, Role: RoleStaff}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.CanManageEvent(&event)
			if result != tt.expected {
				t.Errorf("CanManageEvent() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestUser_CanManageBookings(t *testing.T) {
	event := Event{ID: 1, OrganizerID: 10}

	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"admin manages bookings anywhere", User{ID: 99, Role: RoleAdmin}, true},
		{"staff manages bookings anywhere", User{ID: 98, Role: RoleStaff}, true},
		{"organizer manages bookings on own event", User{ID: 10, Role: RoleOrganizer}, true},
		{"organizer blocked on another's event", User{ID: 11, Role: RoleOrganizer}, false},
		{"client cannot manage bookings", User{ID: 12, Role: RoleClient}, false},
		{"moderator cannot manage bookings", User{ID: 13, Role: RoleModerator}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.CanManageBookings(&event)
			if result != tt.expected {
				t.Errorf("CanManageBookings() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestUser_FullName(t *testing.T) {
	user := User{FirstName: "Jane", LastName: "Doe"}
	if got := user.FullName(); got != "Jane Doe" {
		t.Errorf("FullName() = %q, expected %q", got, "Jane Doe")
	}
}

func TestUserCreateRequest_Validate(t *testing.T) {
	valid := UserCreateRequest{
		Email:     "jane@example.com",
		Password:  "supersecret",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      RoleClient,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("valid request returned error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*UserCreateRequest)
	}{
		{"invalid email", func(r *UserCreateRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *UserCreateRequest) { r.Password = "short" }},
		{"empty first name", func(r *UserCreateRequest) { r.FirstName = " " }},
		{"invalid role", func(r *UserCreateRequest) { r.Role = "superhero" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
