package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RoleClient    UserRole = "client"
	RoleStaff     UserRole = "staff"
	RoleModerator UserRole = "moderator"
)

// Permissions grantable to roles
const (
	PermissionManageEvents    = "MANAGE_EVENTS"
	PermissionManageBookings  = "MANAGE_BOOKINGS"
	PermissionManageResources = "MANAGE_RESOURCES"
	PermissionManageUsers     = "MANAGE_USERS"
	PermissionModerateContent = "MODERATE_CONTENT"
)

// rolePermissions maps each role to the permissions it holds.
var rolePermissions = map[UserRole][]string{
	RoleAdmin: {
		PermissionManageEvents,
		PermissionManageBookings,
		PermissionManageResources,
		PermissionManageUsers,
		PermissionModerateContent,
	},
	RoleOrganizer: {
		PermissionManageEvents,
		PermissionManageBookings,
		PermissionManageResources,
	},
	RoleModerator: {
		PermissionModerateContent,
	},
	RoleStaff: {
		PermissionManageBookings,
	},
	RoleClient: {},
}

// User represents a user in the system
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role"`
}

var userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates user creation data
func (req *UserCreateRequest) Validate() error {
	if req.Email == "" {
		return errors.New("email is required")
	}

	if !userEmailRegex.MatchString(req.Email) {
		return errors.New("email format is invalid")
	}

	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if strings.TrimSpace(req.FirstName) == "" {
		return errors.New("first name is required")
	}

	if err := validateRole(req.Role); err != nil {
		return err
	}

	return nil
}

// validateRole validates a user role
func validateRole(role UserRole) error {
	switch role {
	case RoleAdmin, RoleOrganizer, RoleClient, RoleStaff, RoleModerator:
		return nil
	default:
		return errors.New("invalid user role")
	}
}

// FullName returns the user's full name
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasPermission returns true if the user's role grants the permission
func (u *User) HasPermission(permission string) bool {
	for _, p := range rolePermissions[u.Role] {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin returns true if the user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsOrganizer returns true if the user is an organizer
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

// CanManageEvent returns true if the user may manage the given event
func (u *User) CanManageEvent(e *Event) bool {
	return u.HasPermission(PermissionManageEvents) && (u.IsAdmin() || e.OrganizerID == u.ID)
}

// CanManageBookings returns true if the user may act on bookings for the
// given event. Admins and staff operate across all events; organizers only
// on events they own.
func (u *User) CanManageBookings(e *Event) bool {
	if !u.HasPermission(PermissionManageBookings) {
		return false
	}
	return u.IsAdmin() || u.Role == RoleStaff || e.OrganizerID == u.ID
}
