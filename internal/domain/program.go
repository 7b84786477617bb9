package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrProgramNotFound is returned when a workout program cannot be located.
var ErrProgramNotFound = errors.New("workout program not found")

// WorkoutProgram is a coach-authored training plan structured as
// blocks → weeks → days → activities.
type WorkoutProgram struct {
	ID        string
	TenantID  string
	GymID     string
	CoachID   string
	ClientID  string
	Name      string
	Notes     string
	Blocks    []Block
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Block is the top structural level of a program, carrying declared volume
// targets for comparison against computed actuals.
type Block struct {
	Name    string         `json:"name"`
	Targets []VolumeTarget `json:"targets,omitempty"`
	Weeks   []Week         `json:"weeks"`
}

// VolumeTarget declares the intended share of training volume for one group.
type VolumeTarget struct {
	Group   string `json:"group"`
	Percent int    `json:"percent"`
}

// Week groups the days of one training week.
type Week struct {
	Days []Day `json:"days"`
}

// Day holds the activities programmed for one day of the week.
type Day struct {
	DayOfWeek  int        `json:"day_of_week"`
	Activities []Activity `json:"activities"`
}

// Activity references an activity template; sets and reps only carry meaning
// for strength work.
type Activity struct {
	TemplateID string `json:"template_id"`
	Type       string `json:"type"`
	Sets       int    `json:"sets,omitempty"`
	Reps       int    `json:"reps,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// BlockVolume pairs a block's computed group percentages with its declared targets.
type BlockVolume struct {
	Block   string
	Actual  map[string]int
	Targets []VolumeTarget
}

// ProgramRepository captures persistence operations for workout programs.
type ProgramRepository interface {
	Create(ctx context.Context, program WorkoutProgram) error
	Get(ctx context.Context, tenantID, programID string) (*WorkoutProgram, error)
	List(ctx context.Context, tenantID, gymID string, cursor *Cursor, limit int) ([]WorkoutProgram, *Cursor, error)
	Update(ctx context.Context, program WorkoutProgram) error
	Delete(ctx context.Context, tenantID, programID string) error
}

// ProgramService orchestrates workout program workflows.
type ProgramService struct {
	repo      ProgramRepository
	templates ActivityTemplateRepository
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo ProgramRepository, templates ActivityTemplateRepository) *ProgramService {
	return &ProgramService{repo: repo, templates: templates}
}

// CreateProgramInput captures the payload from the API layer.
type CreateProgramInput struct {
	TenantID string
	GymID    string
	CoachID  string
	ClientID string
	Name     string
	Notes    string
	Blocks   []Block
}

// CreateProgram registers a workout program.
func (s *ProgramService) CreateProgram(ctx context.Context, input CreateProgramInput) (*WorkoutProgram, error) {
	now := time.Now().UTC()
	program := WorkoutProgram{
		ID:        uuid.NewString(),
		TenantID:  input.TenantID,
		GymID:     input.GymID,
		CoachID:   input.CoachID,
		ClientID:  input.ClientID,
		Name:      input.Name,
		Notes:     input.Notes,
		Blocks:    input.Blocks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, err
	}
	return &program, nil
}

// GetProgram fetches by ID within a tenant.
func (s *ProgramService) GetProgram(ctx context.Context, tenantID, programID string) (*WorkoutProgram, error) {
	program, err := s.repo.Get(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	return program, nil
}

// ListPrograms returns programs with cursor pagination, optionally filtered by gym.
func (s *ProgramService) ListPrograms(ctx context.Context, tenantID, gymID string, cursor *Cursor, limit int) ([]WorkoutProgram, *Cursor, error) {
	return s.repo.List(ctx, tenantID, gymID, cursor, limit)
}

// UpdateProgramInput carries mutable program fields. Blocks replace the stored
// structure wholesale when non-nil.
type UpdateProgramInput struct {
	Name     string
	Notes    string
	ClientID string
	Blocks   []Block
}

// UpdateProgram applies mutable fields to an existing program.
func (s *ProgramService) UpdateProgram(ctx context.Context, tenantID, programID string, input UpdateProgramInput) (*WorkoutProgram, error) {
	program, err := s.GetProgram(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		program.Name = input.Name
	}
	if input.Notes != "" {
		program.Notes = input.Notes
	}
	if input.ClientID != "" {
		program.ClientID = input.ClientID
	}
	if input.Blocks != nil {
		program.Blocks = input.Blocks
	}
	program.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *program); err != nil {
		return nil, err
	}
	return program, nil
}

// DeleteProgram removes a workout program.
func (s *ProgramService) DeleteProgram(ctx context.Context, tenantID, programID string) error {
	if _, err := s.GetProgram(ctx, tenantID, programID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, programID)
}

// VolumeReport computes the realized volume distribution per block, resolving
// activity groups through the tenant's activity templates.
func (s *ProgramService) VolumeReport(ctx context.Context, tenantID, programID string) (*WorkoutProgram, []BlockVolume, error) {
	program, err := s.GetProgram(ctx, tenantID, programID)
	if err != nil {
		return nil, nil, err
	}

	templates, err := s.templates.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	groups := BuildGroupMap(templates)

	report := make([]BlockVolume, 0, len(program.Blocks))
	for _, block := range program.Blocks {
		report = append(report, BlockVolume{
			Block:   block.Name,
			Actual:  VolumeDistribution(block, groups),
			Targets: block.Targets,
		})
	}
	return program, report, nil
}
