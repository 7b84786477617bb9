package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/observability"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/persistence"
)

func (h *Handler) programsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createProgram(w, r)
	case http.MethodGet:
		h.listPrograms(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) programByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/workout-programs/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing program id")
		return
	}

	// GET /v1/workout-programs/{id}/volume reports realized volume per block.
	if id, found := strings.CutSuffix(rest, "/volume"); found {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.programVolume(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getProgram(w, r, rest)
	case http.MethodPut:
		h.updateProgram(w, r, rest)
	case http.MethodDelete:
		h.deleteProgram(w, r, rest)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createProgram(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req SaveProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	coachID := req.CoachID
	if coachID == "" && claims.HasRole(domain.RoleCoach) {
		coachID = claims.Subject
	}
	if coachID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "coach_id is required")
		return
	}

	program, err := h.programs.CreateProgram(r.Context(), domain.CreateProgramInput{
		TenantID: claims.TenantID,
		GymID:    req.GymID,
		CoachID:  coachID,
		ClientID: req.ClientID,
		Name:     req.Name,
		Notes:    req.Notes,
		Blocks:   req.Blocks,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toProgramView(*program))
}

func (h *Handler) getProgram(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	program, err := h.programs.GetProgram(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout program not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	// Clients may only read programs assigned to them.
	if claims.HasRole(domain.RoleClient) && program.ClientID != claims.Subject {
		writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
		return
	}
	writeJSON(w, http.StatusOK, toProgramView(*program))
}

func (h *Handler) listPrograms(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	gymID := r.URL.Query().Get("gym_id")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	programs, next, err := h.programs.ListPrograms(r.Context(), claims.TenantID, gymID, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ProgramView, 0, len(programs))
	for _, program := range programs {
		items = append(items, toProgramView(program))
	}
	writeJSON(w, http.StatusOK, ListProgramsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) updateProgram(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req SaveProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := validateBlocks(req.Blocks); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	program, err := h.programs.UpdateProgram(r.Context(), claims.TenantID, id, domain.UpdateProgramInput{
		Name:     req.Name,
		Notes:    req.Notes,
		ClientID: req.ClientID,
		Blocks:   req.Blocks,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout program not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProgramView(*program))
}

func (h *Handler) deleteProgram(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	if err := h.programs.DeleteProgram(r.Context(), claims.TenantID, id); err != nil {
		if errors.Is(err, domain.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout program not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) programVolume(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	program, report, err := h.programs.VolumeReport(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout program not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if claims.HasRole(domain.RoleClient) && program.ClientID != claims.Subject {
		writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
		return
	}
	observability.RecordVolumeReport()

	blocks := make([]BlockVolumeView, 0, len(report))
	for _, bv := range report {
		blocks = append(blocks, BlockVolumeView{
			Block:   bv.Block,
			Actual:  bv.Actual,
			Targets: bv.Targets,
		})
	}
	writeJSON(w, http.StatusOK, VolumeReportResponse{
		ProgramID: program.ID,
		Name:      program.Name,
		Blocks:    blocks,
	})
}

// SaveProgramRequest is the payload for POST and PUT on workout programs.
type SaveProgramRequest struct {
	GymID    string         `json:"gym_id,omitempty"`
	CoachID  string         `json:"coach_id,omitempty"`
	ClientID string         `json:"client_id,omitempty"`
	Name     string         `json:"name"`
	Notes    string         `json:"notes,omitempty"`
	Blocks   []domain.Block `json:"blocks,omitempty"`
}

// Validate ensures request correctness.
func (r SaveProgramRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.GymID) == "" {
		return errors.New("gym_id is required")
	}
	return validateBlocks(r.Blocks)
}

func validateBlocks(blocks []domain.Block) error {
	for bi, block := range blocks {
		if strings.TrimSpace(block.Name) == "" {
			return fmt.Errorf("block %d: name is required", bi)
		}
		for _, target := range block.Targets {
			if target.Percent < 0 || target.Percent > 100 {
				return fmt.Errorf("block %d: target percent for group %s must be 0-100", bi, target.Group)
			}
		}
		for wi, week := range block.Weeks {
			for di, day := range week.Days {
				if day.DayOfWeek < 1 || day.DayOfWeek > 7 {
					return fmt.Errorf("block %d week %d day %d: day_of_week must be 1-7", bi, wi, di)
				}
				for ai, activity := range day.Activities {
					if !domain.ValidActivityType(activity.Type) {
						return fmt.Errorf("block %d week %d day %d activity %d: unknown type %q", bi, wi, di, ai, activity.Type)
					}
					if activity.Type == domain.ActivityTypeStrength && (activity.Sets <= 0 || activity.Reps <= 0) {
						return fmt.Errorf("block %d week %d day %d activity %d: strength work needs positive sets and reps", bi, wi, di, ai)
					}
				}
			}
		}
	}
	return nil
}

// ProgramView exposes full details about a workout program.
type ProgramView struct {
	ProgramID string         `json:"program_id"`
	TenantID  string         `json:"tenant_id"`
	GymID     string         `json:"gym_id,omitempty"`
	CoachID   string         `json:"coach_id,omitempty"`
	ClientID  string         `json:"client_id,omitempty"`
	Name      string         `json:"name"`
	Notes     string         `json:"notes,omitempty"`
	Blocks    []domain.Block `json:"blocks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ListProgramsResponse packages list results.
type ListProgramsResponse struct {
	Items      []ProgramView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// BlockVolumeView pairs computed per-group percentages with declared targets
// for one block. Percentages round independently and may not sum to 100.
type BlockVolumeView struct {
	Block   string                `json:"block"`
	Actual  map[string]int        `json:"actual"`
	Targets []domain.VolumeTarget `json:"targets,omitempty"`
}

// VolumeReportResponse is the payload for GET /v1/workout-programs/{id}/volume.
type VolumeReportResponse struct {
	ProgramID string            `json:"program_id"`
	Name      string            `json:"name"`
	Blocks    []BlockVolumeView `json:"blocks"`
}

func toProgramView(program domain.WorkoutProgram) ProgramView {
	return ProgramView{
		ProgramID: program.ID,
		TenantID:  program.TenantID,
		GymID:     program.GymID,
		CoachID:   program.CoachID,
		ClientID:  program.ClientID,
		Name:      program.Name,
		Notes:     program.Notes,
		Blocks:    program.Blocks,
		CreatedAt: program.CreatedAt,
		UpdatedAt: program.UpdatedAt,
	}
}
