// Package domain defines the business logic for the gym manager service.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Roles recognised by the access-control layer.
const (
	RoleAdmin    = "admin"
	RoleGymOwner = "gym_owner"
	RoleCoach    = "coach"
	RoleClient   = "client"
)

var (
	// ErrUserNotFound is returned when a user cannot be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates another user already registered the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownRole indicates a role outside the recognised set.
	ErrUnknownRole = errors.New("unknown role")
)

// ValidRole reports whether the role is one of the recognised constants.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleGymOwner, RoleCoach, RoleClient:
		return true
	}
	return false
}

// User is a member of a tenant: platform admin, gym owner, coach or client.
type User struct {
	ID           string
	TenantID     string
	GymID        string
	Email        string
	Name         string
	Role         string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Cursor models the keyset pagination token used by list queries.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// UserRepository captures persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, tenantID, userID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, tenantID, gymID string, cursor *Cursor, limit int) ([]User, *Cursor, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, tenantID, userID string) error
}

// UserService orchestrates user workflows.
type UserService struct {
	repo UserRepository
	cost int
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// CreateUserInput captures the payload from the API layer.
type CreateUserInput struct {
	TenantID string
	GymID    string
	Email    string
	Name     string
	Role     string
	Password string
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if !ValidRole(input.Role) {
		return nil, ErrUnknownRole
	}

	email := normalizeEmail(input.Email)
	if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		TenantID:     input.TenantID,
		GymID:        input.GymID,
		Email:        email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies email and password for login.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser fetches by ID within a tenant.
func (s *UserService) GetUser(ctx context.Context, tenantID, userID string) (*User, error) {
	user, err := s.repo.Get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns users with cursor pagination, optionally filtered by gym.
func (s *UserService) ListUsers(ctx context.Context, tenantID, gymID string, cursor *Cursor, limit int) ([]User, *Cursor, error) {
	return s.repo.List(ctx, tenantID, gymID, cursor, limit)
}

// UpdateUserInput carries mutable user fields.
type UpdateUserInput struct {
	Name  string
	GymID string
	Role  string
}

// UpdateUser applies mutable fields to an existing user.
func (s *UserService) UpdateUser(ctx context.Context, tenantID, userID string, input UpdateUserInput) (*User, error) {
	user, err := s.GetUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.GymID != "" {
		user.GymID = input.GymID
	}
	if input.Role != "" {
		if !ValidRole(input.Role) {
			return nil, ErrUnknownRole
		}
		user.Role = input.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, tenantID, userID string) error {
	if _, err := s.GetUser(ctx, tenantID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
