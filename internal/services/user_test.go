package services

import (
	"errors"
	"testing"

	"event-management-platform/internal/models"
)

func validRegistration(email string) *models.UserCreateRequest {
	return &models.UserCreateRequest{
		Email:     email,
		Password:  "correct-horse-battery",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestRegisterDefaultsToClient(t *testing.T) {
	service := NewUserService(newMockUserRepo())

	user, err := service.Register(validRegistration("ada@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != models.RoleClient {
		t.Errorf("expected client role, got %s", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse-battery" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterRejectsPrivilegedRoles(t *testing.T) {
	service := NewUserService(newMockUserRepo())

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleStaff, models.RoleModerator} {
		req := validRegistration("priv@example.com")
		req.Role = role
		if _, err := service.Register(req); !errors.Is(err, models.ErrForbidden) {
			t.Errorf("role %s: expected ErrForbidden, got %v", role, err)
		}
	}

	req := validRegistration("org@example.com")
	req.Role = models.RoleOrganizer
	if _, err := service.Register(req); err != nil {
		t.Errorf("organizers may self-register, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := NewUserService(newMockUserRepo())

	if _, err := service.Register(validRegistration("dup@example.com")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := service.Register(validRegistration("dup@example.com"))
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate email, got %v", err)
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	service := NewUserService(newMockUserRepo())

	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	req := validRegistration("staff@example.com")
	req.Role = models.RoleStaff

	if _, err := service.CreateUser(organizer, req); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("expected ErrForbidden for an organizer, got %v", err)
	}

	admin := &models.User{ID: 2, Role: models.RoleAdmin}
	user, err := service.CreateUser(admin, req)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Role != models.RoleStaff {
		t.Errorf("expected staff role, got %s", user.Role)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	service := NewUserService(repo)

	if _, err := service.Register(validRegistration("login@example.com")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := service.Authenticate("login@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.Email != "login@example.com" {
		t.Errorf("unexpected user %s", user.Email)
	}

	if _, err := service.Authenticate("login@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for a wrong password, got %v", err)
	}
	if _, err := service.Authenticate("nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for an unknown email, got %v", err)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newMockUserRepo()
	service := NewUserService(repo)

	user, err := service.Register(validRegistration("gone@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := repo.SetActive(user.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	if _, err := service.Authenticate("gone@example.com", "correct-horse-battery"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for an inactive account, got %v", err)
	}
}

func TestSetActiveRequiresAdmin(t *testing.T) {
	repo := newMockUserRepo()
	service := NewUserService(repo)

	target := repo.add(&models.User{Email: "target@example.com"})

	organizer := &models.User{ID: 50, Role: models.RoleOrganizer}
	if err := service.SetActive(organizer, target.ID, false); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("expected ErrForbidden for an organizer, got %v", err)
	}

	admin := &models.User{ID: 51, Role: models.RoleAdmin}
	if err := service.SetActive(admin, target.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, _ := repo.GetByID(target.ID)
	if got.IsActive {
		t.Error("account should be deactivated")
	}
}
