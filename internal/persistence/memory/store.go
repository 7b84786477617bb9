// Package memory provides in-memory repositories for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

// UserStore keeps users in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore constructs an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

// Create implements domain.UserRepository.
func (s *UserStore) Create(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// Get returns the user when it belongs to the tenant.
func (s *UserStore) Get(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok || user.TenantID != tenantID {
		return nil, nil
	}
	return &user, nil
}

// FindByEmail looks a user up across tenants for login.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

// List returns users ordered newest-first with keyset pagination.
func (s *UserStore) List(ctx context.Context, tenantID, gymID string, cursor *domain.Cursor, limit int) ([]domain.User, *domain.Cursor, error) {
	s.mu.RLock()
	matched := make([]domain.User, 0)
	for _, user := range s.users {
		if user.TenantID != tenantID {
			continue
		}
		if gymID != "" && user.GymID != gymID {
			continue
		}
		matched = append(matched, user)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	results := make([]domain.User, 0, limit)
	for _, user := range matched {
		if cursor != nil && !beforeCursor(user.CreatedAt, user.ID, cursor) {
			continue
		}
		results = append(results, user)
		if len(results) == limit {
			break
		}
	}

	var next *domain.Cursor
	if len(results) == limit && limit > 0 {
		last := results[len(results)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// Update implements domain.UserRepository.
func (s *UserStore) Update(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// Delete implements domain.UserRepository.
func (s *UserStore) Delete(ctx context.Context, tenantID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[userID]; ok && user.TenantID == tenantID {
		delete(s.users, userID)
	}
	return nil
}

// GymStore keeps gyms in memory.
type GymStore struct {
	mu   sync.RWMutex
	gyms map[string]domain.Gym
}

// NewGymStore constructs an empty GymStore.
func NewGymStore() *GymStore {
	return &GymStore{gyms: make(map[string]domain.Gym)}
}

// Create implements domain.GymRepository.
func (s *GymStore) Create(ctx context.Context, gym domain.Gym) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gyms[gym.ID] = gym
	return nil
}

// Get returns the gym when it belongs to the tenant.
func (s *GymStore) Get(ctx context.Context, tenantID, gymID string) (*domain.Gym, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gym, ok := s.gyms[gymID]
	if !ok || gym.TenantID != tenantID {
		return nil, nil
	}
	return &gym, nil
}

// ListByTenant returns the tenant's gyms ordered by name.
func (s *GymStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.Gym, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Gym, 0)
	for _, gym := range s.gyms {
		if gym.TenantID == tenantID {
			out = append(out, gym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements domain.GymRepository.
func (s *GymStore) Update(ctx context.Context, gym domain.Gym) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gyms[gym.ID] = gym
	return nil
}

// Delete implements domain.GymRepository.
func (s *GymStore) Delete(ctx context.Context, tenantID, gymID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gym, ok := s.gyms[gymID]; ok && gym.TenantID == tenantID {
		delete(s.gyms, gymID)
	}
	return nil
}

// ActivityTemplateStore keeps activity templates in memory.
type ActivityTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]domain.ActivityTemplate
}

// NewActivityTemplateStore constructs an empty ActivityTemplateStore.
func NewActivityTemplateStore() *ActivityTemplateStore {
	return &ActivityTemplateStore{templates: make(map[string]domain.ActivityTemplate)}
}

// Create implements domain.ActivityTemplateRepository.
func (s *ActivityTemplateStore) Create(ctx context.Context, tpl domain.ActivityTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

// Get returns the template when it belongs to the tenant.
func (s *ActivityTemplateStore) Get(ctx context.Context, tenantID, templateID string) (*domain.ActivityTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[templateID]
	if !ok || tpl.TenantID != tenantID {
		return nil, nil
	}
	return &tpl, nil
}

// ListByTenant returns the tenant's activity templates ordered by name.
func (s *ActivityTemplateStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.ActivityTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ActivityTemplate, 0)
	for _, tpl := range s.templates {
		if tpl.TenantID == tenantID {
			out = append(out, tpl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements domain.ActivityTemplateRepository.
func (s *ActivityTemplateStore) Update(ctx context.Context, tpl domain.ActivityTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

// Delete implements domain.ActivityTemplateRepository.
func (s *ActivityTemplateStore) Delete(ctx context.Context, tenantID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tpl, ok := s.templates[templateID]; ok && tpl.TenantID == tenantID {
		delete(s.templates, templateID)
	}
	return nil
}

// SetDefault demotes the gym's previous default and promotes the target under
// one lock, mirroring the transactional swap in the Postgres repository.
func (s *ActivityTemplateStore) SetDefault(ctx context.Context, tenantID, gymID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.templates[templateID]
	if !ok || target.TenantID != tenantID {
		return domain.ErrTemplateNotFound
	}
	if target.GymID != gymID {
		return domain.ErrTemplateGymMismatch
	}

	for id, tpl := range s.templates {
		if tpl.TenantID == tenantID && tpl.GymID == gymID && tpl.IsDefault {
			tpl.IsDefault = false
			s.templates[id] = tpl
		}
	}
	target.IsDefault = true
	s.templates[templateID] = target
	return nil
}

// BenchmarkTemplateStore keeps benchmark templates in memory.
type BenchmarkTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]domain.BenchmarkTemplate
}

// NewBenchmarkTemplateStore constructs an empty BenchmarkTemplateStore.
func NewBenchmarkTemplateStore() *BenchmarkTemplateStore {
	return &BenchmarkTemplateStore{templates: make(map[string]domain.BenchmarkTemplate)}
}

// Create implements domain.BenchmarkTemplateRepository.
func (s *BenchmarkTemplateStore) Create(ctx context.Context, tpl domain.BenchmarkTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

// Get returns the template when it belongs to the tenant.
func (s *BenchmarkTemplateStore) Get(ctx context.Context, tenantID, templateID string) (*domain.BenchmarkTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[templateID]
	if !ok || tpl.TenantID != tenantID {
		return nil, nil
	}
	return &tpl, nil
}

// ListByTenant returns the tenant's benchmark templates ordered by name.
func (s *BenchmarkTemplateStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.BenchmarkTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BenchmarkTemplate, 0)
	for _, tpl := range s.templates {
		if tpl.TenantID == tenantID {
			out = append(out, tpl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements domain.BenchmarkTemplateRepository.
func (s *BenchmarkTemplateStore) Update(ctx context.Context, tpl domain.BenchmarkTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

// Delete implements domain.BenchmarkTemplateRepository.
func (s *BenchmarkTemplateStore) Delete(ctx context.Context, tenantID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tpl, ok := s.templates[templateID]; ok && tpl.TenantID == tenantID {
		delete(s.templates, templateID)
	}
	return nil
}

// ProgramStore keeps workout programs in memory.
type ProgramStore struct {
	mu       sync.RWMutex
	programs map[string]domain.WorkoutProgram
}

// NewProgramStore constructs an empty ProgramStore.
func NewProgramStore() *ProgramStore {
	return &ProgramStore{programs: make(map[string]domain.WorkoutProgram)}
}

// Create implements domain.ProgramRepository.
func (s *ProgramStore) Create(ctx context.Context, program domain.WorkoutProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[program.ID] = program
	return nil
}

// Get returns the program when it belongs to the tenant.
func (s *ProgramStore) Get(ctx context.Context, tenantID, programID string) (*domain.WorkoutProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	program, ok := s.programs[programID]
	if !ok || program.TenantID != tenantID {
		return nil, nil
	}
	return &program, nil
}

// List returns programs ordered newest-first with keyset pagination.
func (s *ProgramStore) List(ctx context.Context, tenantID, gymID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutProgram, *domain.Cursor, error) {
	s.mu.RLock()
	matched := make([]domain.WorkoutProgram, 0)
	for _, program := range s.programs {
		if program.TenantID != tenantID {
			continue
		}
		if gymID != "" && program.GymID != gymID {
			continue
		}
		matched = append(matched, program)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	results := make([]domain.WorkoutProgram, 0, limit)
	for _, program := range matched {
		if cursor != nil && !beforeCursor(program.CreatedAt, program.ID, cursor) {
			continue
		}
		results = append(results, program)
		if len(results) == limit {
			break
		}
	}

	var next *domain.Cursor
	if len(results) == limit && limit > 0 {
		last := results[len(results)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// Update implements domain.ProgramRepository.
func (s *ProgramStore) Update(ctx context.Context, program domain.WorkoutProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[program.ID] = program
	return nil
}

// Delete implements domain.ProgramRepository.
func (s *ProgramStore) Delete(ctx context.Context, tenantID, programID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if program, ok := s.programs[programID]; ok && program.TenantID == tenantID {
		delete(s.programs, programID)
	}
	return nil
}

// ScheduleStore keeps schedule templates in memory.
type ScheduleStore struct {
	mu        sync.RWMutex
	schedules map[string]domain.ScheduleTemplate
}

// NewScheduleStore constructs an empty ScheduleStore.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{schedules: make(map[string]domain.ScheduleTemplate)}
}

// Create implements domain.ScheduleRepository.
func (s *ScheduleStore) Create(ctx context.Context, schedule domain.ScheduleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[schedule.ID] = schedule
	return nil
}

// Get returns the schedule when it belongs to the tenant.
func (s *ScheduleStore) Get(ctx context.Context, tenantID, scheduleID string) (*domain.ScheduleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedule, ok := s.schedules[scheduleID]
	if !ok || schedule.TenantID != tenantID {
		return nil, nil
	}
	return &schedule, nil
}

// ListByTenant returns the tenant's schedule templates ordered by name.
func (s *ScheduleStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.ScheduleTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScheduleTemplate, 0)
	for _, schedule := range s.schedules {
		if schedule.TenantID == tenantID {
			out = append(out, schedule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements domain.ScheduleRepository.
func (s *ScheduleStore) Update(ctx context.Context, schedule domain.ScheduleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[schedule.ID] = schedule
	return nil
}

// Delete implements domain.ScheduleRepository.
func (s *ScheduleStore) Delete(ctx context.Context, tenantID, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if schedule, ok := s.schedules[scheduleID]; ok && schedule.TenantID == tenantID {
		delete(s.schedules, scheduleID)
	}
	return nil
}

// beforeCursor reports whether a row sorts strictly after the cursor position
// in the newest-first ordering used by list queries.
func beforeCursor(createdAt time.Time, id string, cursor *domain.Cursor) bool {
	if createdAt.Before(cursor.CreatedAt) {
		return true
	}
	return createdAt.Equal(cursor.CreatedAt) && id < cursor.ID
}
