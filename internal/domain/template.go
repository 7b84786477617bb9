package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Activity types recognised by templates and program activities.
const (
	ActivityTypeStrength     = "strength"
	ActivityTypeConditioning = "conditioning"
	ActivityTypeDiagnostic   = "diagnostic"
)

// Benchmark directions: whether a higher or lower measurement is better.
const (
	BenchmarkHigherIsBetter = "higher"
	BenchmarkLowerIsBetter  = "lower"
)

var (
	// ErrTemplateNotFound is returned when an activity template cannot be located.
	ErrTemplateNotFound = errors.New("activity template not found")
	// ErrBenchmarkNotFound is returned when a benchmark template cannot be located.
	ErrBenchmarkNotFound = errors.New("benchmark template not found")
	// ErrUnknownActivityType indicates a type outside the recognised set.
	ErrUnknownActivityType = errors.New("unknown activity type")
	// ErrUnknownDirection indicates a benchmark direction outside the recognised set.
	ErrUnknownDirection = errors.New("unknown benchmark direction")
	// ErrTemplateGymMismatch is returned when a default swap targets a template
	// belonging to a different gym.
	ErrTemplateGymMismatch = errors.New("template belongs to a different gym")
)

// ValidActivityType reports whether the type is recognised.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityTypeStrength, ActivityTypeConditioning, ActivityTypeDiagnostic:
		return true
	}
	return false
}

// ActivityTemplate is a reusable exercise definition referenced by program
// activities and schedule timeslots.
type ActivityTemplate struct {
	ID          string
	TenantID    string
	GymID       string
	Name        string
	Type        string
	Group       string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BenchmarkTemplate defines a measurable standard tied to an activity template.
type BenchmarkTemplate struct {
	ID                 string
	TenantID           string
	Name               string
	ActivityTemplateID string
	Unit               string
	Direction          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ActivityTemplateRepository captures persistence operations for activity templates.
type ActivityTemplateRepository interface {
	Create(ctx context.Context, tpl ActivityTemplate) error
	Get(ctx context.Context, tenantID, templateID string) (*ActivityTemplate, error)
	ListByTenant(ctx context.Context, tenantID string) ([]ActivityTemplate, error)
	Update(ctx context.Context, tpl ActivityTemplate) error
	Delete(ctx context.Context, tenantID, templateID string) error
	// SetDefault promotes the template and demotes any previous default for the
	// same gym inside one transaction.
	SetDefault(ctx context.Context, tenantID, gymID, templateID string) error
}

// BenchmarkTemplateRepository captures persistence operations for benchmark templates.
type BenchmarkTemplateRepository interface {
	Create(ctx context.Context, tpl BenchmarkTemplate) error
	Get(ctx context.Context, tenantID, templateID string) (*BenchmarkTemplate, error)
	ListByTenant(ctx context.Context, tenantID string) ([]BenchmarkTemplate, error)
	Update(ctx context.Context, tpl BenchmarkTemplate) error
	Delete(ctx context.Context, tenantID, templateID string) error
}

// TemplateService orchestrates template workflows.
type TemplateService struct {
	activities ActivityTemplateRepository
	benchmarks BenchmarkTemplateRepository
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(activities ActivityTemplateRepository, benchmarks BenchmarkTemplateRepository) *TemplateService {
	return &TemplateService{activities: activities, benchmarks: benchmarks}
}

// CreateActivityTemplateInput captures the payload from the API layer.
type CreateActivityTemplateInput struct {
	TenantID    string
	GymID       string
	Name        string
	Type        string
	Group       string
	Description string
}

// CreateActivityTemplate registers an activity template.
func (s *TemplateService) CreateActivityTemplate(ctx context.Context, input CreateActivityTemplateInput) (*ActivityTemplate, error) {
	if !ValidActivityType(input.Type) {
		return nil, ErrUnknownActivityType
	}
	now := time.Now().UTC()
	tpl := ActivityTemplate{
		ID:          uuid.NewString(),
		TenantID:    input.TenantID,
		GymID:       input.GymID,
		Name:        input.Name,
		Type:        input.Type,
		Group:       input.Group,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.activities.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// GetActivityTemplate fetches by ID within a tenant.
func (s *TemplateService) GetActivityTemplate(ctx context.Context, tenantID, templateID string) (*ActivityTemplate, error) {
	tpl, err := s.activities.Get(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

// ListActivityTemplates returns all activity templates for the tenant.
func (s *TemplateService) ListActivityTemplates(ctx context.Context, tenantID string) ([]ActivityTemplate, error) {
	return s.activities.ListByTenant(ctx, tenantID)
}

// UpdateActivityTemplateInput carries mutable activity template fields.
type UpdateActivityTemplateInput struct {
	Name        string
	Type        string
	Group       string
	Description string
}

// UpdateActivityTemplate applies mutable fields to an existing template.
func (s *TemplateService) UpdateActivityTemplate(ctx context.Context, tenantID, templateID string, input UpdateActivityTemplateInput) (*ActivityTemplate, error) {
	tpl, err := s.GetActivityTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		tpl.Name = input.Name
	}
	if input.Type != "" {
		if !ValidActivityType(input.Type) {
			return nil, ErrUnknownActivityType
		}
		tpl.Type = input.Type
	}
	if input.Group != "" {
		tpl.Group = input.Group
	}
	if input.Description != "" {
		tpl.Description = input.Description
	}
	tpl.UpdatedAt = time.Now().UTC()

	if err := s.activities.Update(ctx, *tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteActivityTemplate removes an activity template.
func (s *TemplateService) DeleteActivityTemplate(ctx context.Context, tenantID, templateID string) error {
	if _, err := s.GetActivityTemplate(ctx, tenantID, templateID); err != nil {
		return err
	}
	return s.activities.Delete(ctx, tenantID, templateID)
}

// SetDefaultTemplate swaps the gym's default activity template. The previous
// default is demoted and the new one promoted in a single transaction, keeping
// the single-default invariant explicit at the transaction boundary.
func (s *TemplateService) SetDefaultTemplate(ctx context.Context, tenantID, templateID string) (*ActivityTemplate, error) {
	tpl, err := s.GetActivityTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if err := s.activities.SetDefault(ctx, tenantID, tpl.GymID, templateID); err != nil {
		return nil, err
	}
	tpl.IsDefault = true
	return tpl, nil
}

// CreateBenchmarkTemplateInput captures the payload from the API layer.
type CreateBenchmarkTemplateInput struct {
	TenantID           string
	Name               string
	ActivityTemplateID string
	Unit               string
	Direction          string
}

// CreateBenchmarkTemplate registers a benchmark template.
func (s *TemplateService) CreateBenchmarkTemplate(ctx context.Context, input CreateBenchmarkTemplateInput) (*BenchmarkTemplate, error) {
	if input.Direction != BenchmarkHigherIsBetter && input.Direction != BenchmarkLowerIsBetter {
		return nil, ErrUnknownDirection
	}
	if input.ActivityTemplateID != "" {
		if _, err := s.GetActivityTemplate(ctx, input.TenantID, input.ActivityTemplateID); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	tpl := BenchmarkTemplate{
		ID:                 uuid.NewString(),
		TenantID:           input.TenantID,
		Name:               input.Name,
		ActivityTemplateID: input.ActivityTemplateID,
		Unit:               input.Unit,
		Direction:          input.Direction,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.benchmarks.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// GetBenchmarkTemplate fetches by ID within a tenant.
func (s *TemplateService) GetBenchmarkTemplate(ctx context.Context, tenantID, templateID string) (*BenchmarkTemplate, error) {
	tpl, err := s.benchmarks.Get(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrBenchmarkNotFound
	}
	return tpl, nil
}

// ListBenchmarkTemplates returns all benchmark templates for the tenant.
func (s *TemplateService) ListBenchmarkTemplates(ctx context.Context, tenantID string) ([]BenchmarkTemplate, error) {
	return s.benchmarks.ListByTenant(ctx, tenantID)
}

// UpdateBenchmarkTemplateInput carries mutable benchmark template fields.
type UpdateBenchmarkTemplateInput struct {
	Name      string
	Unit      string
	Direction string
}

// UpdateBenchmarkTemplate applies mutable fields to an existing benchmark template.
func (s *TemplateService) UpdateBenchmarkTemplate(ctx context.Context, tenantID, templateID string, input UpdateBenchmarkTemplateInput) (*BenchmarkTemplate, error) {
	tpl, err := s.GetBenchmarkTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		tpl.Name = input.Name
	}
	if input.Unit != "" {
		tpl.Unit = input.Unit
	}
	if input.Direction != "" {
		if input.Direction != BenchmarkHigherIsBetter && input.Direction != BenchmarkLowerIsBetter {
			return nil, ErrUnknownDirection
		}
		tpl.Direction = input.Direction
	}
	tpl.UpdatedAt = time.Now().UTC()

	if err := s.benchmarks.Update(ctx, *tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteBenchmarkTemplate removes a benchmark template.
func (s *TemplateService) DeleteBenchmarkTemplate(ctx context.Context, tenantID, templateID string) error {
	if _, err := s.GetBenchmarkTemplate(ctx, tenantID, templateID); err != nil {
		return err
	}
	return s.benchmarks.Delete(ctx, tenantID, templateID)
}
