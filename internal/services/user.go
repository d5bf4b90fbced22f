package services

import (
	"errors"
	"fmt"

	"event-management-platform/internal/models"
	"event-management-platform/internal/utils"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	SetActive(id int, active bool) error
}

// ErrInvalidCredentials indicates a failed login attempt
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService handles user accounts
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new user account. Self-registration is limited to
// client and organizer roles; privileged roles are assigned by admins.
func (s *UserService) Register(req *models.UserCreateRequest) (*models.User, error) {
	if req.Role == "" {
		req.Role = models.RoleClient
	}
	if req.Role != models.RoleClient && req.Role != models.RoleOrganizer {
		return nil, models.ErrForbidden
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", models.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Create(req, hash)
}

// CreateUser creates an account with any role. Restricted to admins.
func (s *UserService) CreateUser(creator *models.User, req *models.UserCreateRequest) (*models.User, error) {
	if !creator.HasPermission(models.PermissionManageUsers) {
		return nil, models.ErrForbidden
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Create(req, hash)
}

// Authenticate checks a user's credentials. Inactive accounts cannot log in.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// SetActive enables or disables an account. Restricted to admins.
func (s *UserService) SetActive(actor *models.User, userID int, active bool) error {
	if !actor.HasPermission(models.PermissionManageUsers) {
		return models.ErrForbidden
	}
	return s.userRepo.SetActive(userID, active)
}
