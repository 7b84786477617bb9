// Package events defines payloads published to Kafka through the outbox.
package events

import "time"

// UserCreated is emitted when a user joins a tenant.
type UserCreated struct {
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	GymID     string    `json:"gym_id,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ProgramSaved is emitted when a workout program is created or updated.
type ProgramSaved struct {
	ProgramID string    `json:"program_id"`
	TenantID  string    `json:"tenant_id"`
	GymID     string    `json:"gym_id"`
	CoachID   string    `json:"coach_id"`
	ClientID  string    `json:"client_id,omitempty"`
	Blocks    int       `json:"blocks"`
	SavedAt   time.Time `json:"saved_at"`
}

// ScheduleSaved is emitted when a schedule template is created or updated.
type ScheduleSaved struct {
	ScheduleID string    `json:"schedule_id"`
	TenantID   string    `json:"tenant_id"`
	GymID      string    `json:"gym_id"`
	Timeslots  int       `json:"timeslots"`
	SavedAt    time.Time `json:"saved_at"`
}
