package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrScheduleNotFound is returned when a schedule template cannot be located.
var ErrScheduleNotFound = errors.New("schedule template not found")

// Timeslot is a recurring weekly time window bound to a location and coach.
// Times are HH:MM 24-hour strings; DayOfWeek runs 1 (Monday) through 7.
type Timeslot struct {
	DayOfWeek          int    `json:"day_of_week"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	LocationID         string `json:"location_id,omitempty"`
	CoachID            string `json:"coach_id,omitempty"`
	ActivityTemplateID string `json:"activity_template_id,omitempty"`
}

// ScheduleTemplate is a gym's recurring weekly class schedule.
type ScheduleTemplate struct {
	ID        string
	TenantID  string
	GymID     string
	Name      string
	IsDefault bool
	Timeslots []Timeslot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleRepository captures persistence operations for schedule templates.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule ScheduleTemplate) error
	Get(ctx context.Context, tenantID, scheduleID string) (*ScheduleTemplate, error)
	ListByTenant(ctx context.Context, tenantID string) ([]ScheduleTemplate, error)
	Update(ctx context.Context, schedule ScheduleTemplate) error
	Delete(ctx context.Context, tenantID, scheduleID string) error
}

// ScheduleService orchestrates schedule template workflows. Conflict detection
// runs in the API layer before saves reach the service.
type ScheduleService struct {
	repo ScheduleRepository
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo ScheduleRepository) *ScheduleService {
	return &ScheduleService{repo: repo}
}

// CreateScheduleInput captures the payload from the API layer.
type CreateScheduleInput struct {
	TenantID  string
	GymID     string
	Name      string
	Timeslots []Timeslot
}

// CreateSchedule registers a schedule template.
func (s *ScheduleService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*ScheduleTemplate, error) {
	now := time.Now().UTC()
	schedule := ScheduleTemplate{
		ID:        uuid.NewString(),
		TenantID:  input.TenantID,
		GymID:     input.GymID,
		Name:      input.Name,
		Timeslots: input.Timeslots,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// GetSchedule fetches by ID within a tenant.
func (s *ScheduleService) GetSchedule(ctx context.Context, tenantID, scheduleID string) (*ScheduleTemplate, error) {
	schedule, err := s.repo.Get(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

// ListSchedules returns all schedule templates for the tenant.
func (s *ScheduleService) ListSchedules(ctx context.Context, tenantID string) ([]ScheduleTemplate, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// UpdateScheduleInput carries mutable schedule fields. Timeslots replace the
// stored set wholesale when non-nil.
type UpdateScheduleInput struct {
	Name      string
	Timeslots []Timeslot
}

// UpdateSchedule applies mutable fields to an existing schedule template.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, tenantID, scheduleID string, input UpdateScheduleInput) (*ScheduleTemplate, error) {
	schedule, err := s.GetSchedule(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		schedule.Name = input.Name
	}
	if input.Timeslots != nil {
		schedule.Timeslots = input.Timeslots
	}
	schedule.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// DeleteSchedule removes a schedule template.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, tenantID, scheduleID string) error {
	if _, err := s.GetSchedule(ctx, tenantID, scheduleID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, scheduleID)
}
