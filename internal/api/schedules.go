package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/observability"
)

func (h *Handler) schedulesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createSchedule(w, r)
	case http.MethodGet:
		h.listSchedules(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) scheduleByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/schedule-templates/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing schedule id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getSchedule(w, r, id)
	case http.MethodPut:
		h.updateSchedule(w, r, id)
	case http.MethodDelete:
		h.deleteSchedule(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if !h.rejectConflicts(w, req.Timeslots) {
		return
	}

	schedule, err := h.schedules.CreateSchedule(r.Context(), domain.CreateScheduleInput{
		TenantID:  claims.TenantID,
		GymID:     req.GymID,
		Name:      req.Name,
		Timeslots: req.Timeslots,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleView(*schedule))
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	schedule, err := h.schedules.GetSchedule(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "schedule template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toScheduleView(*schedule))
}

func (h *Handler) listSchedules(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	schedules, err := h.schedules.ListSchedules(r.Context(), claims.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ScheduleView, 0, len(schedules))
	for _, schedule := range schedules {
		items = append(items, toScheduleView(schedule))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) updateSchedule(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := validateTimeslots(req.Timeslots); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if !h.rejectConflicts(w, req.Timeslots) {
		return
	}

	schedule, err := h.schedules.UpdateSchedule(r.Context(), claims.TenantID, id, domain.UpdateScheduleInput{
		Name:      req.Name,
		Timeslots: req.Timeslots,
	})
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "schedule template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toScheduleView(*schedule))
}

func (h *Handler) deleteSchedule(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	if err := h.schedules.DeleteSchedule(r.Context(), claims.TenantID, id); err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "schedule template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rejectConflicts runs conflict detection and, when overlaps exist, writes the
// 400 response listing every conflict. Returns false if the save must stop.
func (h *Handler) rejectConflicts(w http.ResponseWriter, slots []domain.Timeslot) bool {
	conflicts := domain.DetectTimeslotConflicts(slots)
	if len(conflicts) == 0 {
		return true
	}
	observability.RecordScheduleConflicts(len(conflicts))
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"type":      "schedule_conflicts",
		"detail":    "timeslots overlap",
		"conflicts": conflicts,
	})
	return false
}

// SaveScheduleRequest is the payload for POST and PUT on schedule templates.
type SaveScheduleRequest struct {
	GymID     string            `json:"gym_id,omitempty"`
	Name      string            `json:"name"`
	Timeslots []domain.Timeslot `json:"timeslots,omitempty"`
}

// Validate ensures request correctness.
func (r SaveScheduleRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.GymID) == "" {
		return errors.New("gym_id is required")
	}
	return validateTimeslots(r.Timeslots)
}

func validateTimeslots(slots []domain.Timeslot) error {
	for i, slot := range slots {
		if slot.DayOfWeek < 1 || slot.DayOfWeek > 7 {
			return fmt.Errorf("timeslot %d: day_of_week must be 1-7", i)
		}
		start, err := time.Parse("15:04", slot.StartTime)
		if err != nil {
			return fmt.Errorf("timeslot %d: start_time must be HH:MM", i)
		}
		end, err := time.Parse("15:04", slot.EndTime)
		if err != nil {
			return fmt.Errorf("timeslot %d: end_time must be HH:MM", i)
		}
		if !start.Before(end) {
			return fmt.Errorf("timeslot %d: start_time must be before end_time", i)
		}
	}
	return nil
}

// ScheduleView exposes full details about a schedule template.
type ScheduleView struct {
	ScheduleID string            `json:"schedule_id"`
	TenantID   string            `json:"tenant_id"`
	GymID      string            `json:"gym_id,omitempty"`
	Name       string            `json:"name"`
	IsDefault  bool              `json:"is_default"`
	Timeslots  []domain.Timeslot `json:"timeslots"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func toScheduleView(schedule domain.ScheduleTemplate) ScheduleView {
	return ScheduleView{
		ScheduleID: schedule.ID,
		TenantID:   schedule.TenantID,
		GymID:      schedule.GymID,
		Name:       schedule.Name,
		IsDefault:  schedule.IsDefault,
		Timeslots:  schedule.Timeslots,
		CreatedAt:  schedule.CreatedAt,
		UpdatedAt:  schedule.UpdatedAt,
	}
}
