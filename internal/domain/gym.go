package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrGymNotFound is returned when a gym cannot be located.
var ErrGymNotFound = errors.New("gym not found")

// Gym is a physical facility belonging to a tenant.
type Gym struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GymRepository captures persistence operations for gyms.
type GymRepository interface {
	Create(ctx context.Context, gym Gym) error
	Get(ctx context.Context, tenantID, gymID string) (*Gym, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Gym, error)
	Update(ctx context.Context, gym Gym) error
	Delete(ctx context.Context, tenantID, gymID string) error
}

// GymService orchestrates gym workflows.
type GymService struct {
	repo GymRepository
}

// NewGymService constructs a GymService.
func NewGymService(repo GymRepository) *GymService {
	return &GymService{repo: repo}
}

// CreateGymInput captures the payload from the API layer.
type CreateGymInput struct {
	TenantID string
	Name     string
	Address  string
	OwnerID  string
}

// CreateGym registers a gym.
func (s *GymService) CreateGym(ctx context.Context, input CreateGymInput) (*Gym, error) {
	now := time.Now().UTC()
	gym := Gym{
		ID:        uuid.NewString(),
		TenantID:  input.TenantID,
		Name:      input.Name,
		Address:   input.Address,
		OwnerID:   input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, gym); err != nil {
		return nil, err
	}
	return &gym, nil
}

// GetGym fetches by ID within a tenant.
func (s *GymService) GetGym(ctx context.Context, tenantID, gymID string) (*Gym, error) {
	gym, err := s.repo.Get(ctx, tenantID, gymID)
	if err != nil {
		return nil, err
	}
	if gym == nil {
		return nil, ErrGymNotFound
	}
	return gym, nil
}

// ListGyms returns all gyms for the tenant.
func (s *GymService) ListGyms(ctx context.Context, tenantID string) ([]Gym, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// UpdateGymInput carries mutable gym fields.
type UpdateGymInput struct {
	Name    string
	Address string
	OwnerID string
}

// UpdateGym applies mutable fields to an existing gym.
func (s *GymService) UpdateGym(ctx context.Context, tenantID, gymID string, input UpdateGymInput) (*Gym, error) {
	gym, err := s.GetGym(ctx, tenantID, gymID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		gym.Name = input.Name
	}
	if input.Address != "" {
		gym.Address = input.Address
	}
	if input.OwnerID != "" {
		gym.OwnerID = input.OwnerID
	}
	gym.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *gym); err != nil {
		return nil, err
	}
	return gym, nil
}

// DeleteGym removes a gym.
func (s *GymService) DeleteGym(ctx context.Context, tenantID, gymID string) error {
	if _, err := s.GetGym(ctx, tenantID, gymID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, gymID)
}
