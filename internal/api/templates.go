package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func (h *Handler) activityTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivityTemplate(w, r)
	case http.MethodGet:
		h.listActivityTemplates(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityTemplateByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/activity-templates/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing template id")
		return
	}

	// POST /v1/activity-templates/{id}/default promotes the gym default.
	if id, found := strings.CutSuffix(rest, "/default"); found {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.setDefaultTemplate(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivityTemplate(w, r, rest)
	case http.MethodPut:
		h.updateActivityTemplate(w, r, rest)
	case http.MethodDelete:
		h.deleteActivityTemplate(w, r, rest)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivityTemplate(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req CreateActivityTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	tpl, err := h.templates.CreateActivityTemplate(r.Context(), domain.CreateActivityTemplateInput{
		TenantID:    claims.TenantID,
		GymID:       req.GymID,
		Name:        req.Name,
		Type:        req.Type,
		Group:       req.Group,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownActivityType) {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown activity type")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toActivityTemplateView(*tpl))
}

func (h *Handler) getActivityTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.GetActivityTemplate(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toActivityTemplateView(*tpl))
}

func (h *Handler) listActivityTemplates(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	templates, err := h.templates.ListActivityTemplates(r.Context(), claims.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityTemplateView, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, toActivityTemplateView(tpl))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) updateActivityTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req UpdateActivityTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	tpl, err := h.templates.UpdateActivityTemplate(r.Context(), claims.TenantID, id, domain.UpdateActivityTemplateInput{
		Name:        req.Name,
		Type:        req.Type,
		Group:       req.Group,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "not_found", "activity template not found")
		case errors.Is(err, domain.ErrUnknownActivityType):
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown activity type")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toActivityTemplateView(*tpl))
}

func (h *Handler) deleteActivityTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	if err := h.templates.DeleteActivityTemplate(r.Context(), claims.TenantID, id); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefaultTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	tpl, err := h.templates.SetDefaultTemplate(r.Context(), claims.TenantID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "not_found", "activity template not found")
		case errors.Is(err, domain.ErrTemplateGymMismatch):
			writeError(w, http.StatusConflict, "gym_mismatch", "template belongs to a different gym")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toActivityTemplateView(*tpl))
}

func (h *Handler) benchmarkTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createBenchmarkTemplate(w, r)
	case http.MethodGet:
		h.listBenchmarkTemplates(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) benchmarkTemplateByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/benchmark-templates/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing template id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getBenchmarkTemplate(w, r, id)
	case http.MethodPut:
		h.updateBenchmarkTemplate(w, r, id)
	case http.MethodDelete:
		h.deleteBenchmarkTemplate(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createBenchmarkTemplate(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req CreateBenchmarkTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	tpl, err := h.templates.CreateBenchmarkTemplate(r.Context(), domain.CreateBenchmarkTemplateInput{
		TenantID:           claims.TenantID,
		Name:               req.Name,
		ActivityTemplateID: req.ActivityTemplateID,
		Unit:               req.Unit,
		Direction:          req.Direction,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownDirection):
			writeError(w, http.StatusBadRequest, "validation_failed", "direction must be higher or lower")
		case errors.Is(err, domain.ErrTemplateNotFound):
			writeError(w, http.StatusBadRequest, "validation_failed", "referenced activity template not found")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, toBenchmarkTemplateView(*tpl))
}

func (h *Handler) getBenchmarkTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.GetBenchmarkTemplate(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBenchmarkNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "benchmark template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBenchmarkTemplateView(*tpl))
}

func (h *Handler) listBenchmarkTemplates(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	templates, err := h.templates.ListBenchmarkTemplates(r.Context(), claims.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]BenchmarkTemplateView, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, toBenchmarkTemplateView(tpl))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) updateBenchmarkTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner, domain.RoleCoach) {
		return
	}

	var req UpdateBenchmarkTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	tpl, err := h.templates.UpdateBenchmarkTemplate(r.Context(), claims.TenantID, id, domain.UpdateBenchmarkTemplateInput{
		Name:      req.Name,
		Unit:      req.Unit,
		Direction: req.Direction,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBenchmarkNotFound):
			writeError(w, http.StatusNotFound, "not_found", "benchmark template not found")
		case errors.Is(err, domain.ErrUnknownDirection):
			writeError(w, http.StatusBadRequest, "validation_failed", "direction must be higher or lower")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toBenchmarkTemplateView(*tpl))
}

func (h *Handler) deleteBenchmarkTemplate(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	if err := h.templates.DeleteBenchmarkTemplate(r.Context(), claims.TenantID, id); err != nil {
		if errors.Is(err, domain.ErrBenchmarkNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "benchmark template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateActivityTemplateRequest is the payload for POST /v1/activity-templates.
type CreateActivityTemplateRequest struct {
	GymID       string `json:"gym_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Group       string `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate ensures request correctness. Templates always belong to a gym; the
// single-default swap is scoped per gym and has no meaning without one.
func (r CreateActivityTemplateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.GymID) == "" {
		return errors.New("gym_id is required")
	}
	if !domain.ValidActivityType(r.Type) {
		return errors.New("type must be one of strength, conditioning, diagnostic")
	}
	return nil
}

// UpdateActivityTemplateRequest is the payload for PUT /v1/activity-templates/{id}.
type UpdateActivityTemplateRequest struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Group       string `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreateBenchmarkTemplateRequest is the payload for POST /v1/benchmark-templates.
type CreateBenchmarkTemplateRequest struct {
	Name               string `json:"name"`
	ActivityTemplateID string `json:"activity_template_id,omitempty"`
	Unit               string `json:"unit"`
	Direction          string `json:"direction"`
}

// Validate ensures request correctness.
func (r CreateBenchmarkTemplateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Unit) == "" {
		return errors.New("unit is required")
	}
	if r.Direction != domain.BenchmarkHigherIsBetter && r.Direction != domain.BenchmarkLowerIsBetter {
		return errors.New("direction must be higher or lower")
	}
	return nil
}

// UpdateBenchmarkTemplateRequest is the payload for PUT /v1/benchmark-templates/{id}.
type UpdateBenchmarkTemplateRequest struct {
	Name      string `json:"name,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// ActivityTemplateView exposes full details about an activity template.
type ActivityTemplateView struct {
	TemplateID  string    `json:"template_id"`
	TenantID    string    `json:"tenant_id"`
	GymID       string    `json:"gym_id,omitempty"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Group       string    `json:"group,omitempty"`
	Description string    `json:"description,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toActivityTemplateView(tpl domain.ActivityTemplate) ActivityTemplateView {
	return ActivityTemplateView{
		TemplateID:  tpl.ID,
		TenantID:    tpl.TenantID,
		GymID:       tpl.GymID,
		Name:        tpl.Name,
		Type:        tpl.Type,
		Group:       tpl.Group,
		Description: tpl.Description,
		IsDefault:   tpl.IsDefault,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}
}

// BenchmarkTemplateView exposes full details about a benchmark template.
type BenchmarkTemplateView struct {
	TemplateID         string    `json:"template_id"`
	TenantID           string    `json:"tenant_id"`
	Name               string    `json:"name"`
	ActivityTemplateID string    `json:"activity_template_id,omitempty"`
	Unit               string    `json:"unit"`
	Direction          string    `json:"direction"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toBenchmarkTemplateView(tpl domain.BenchmarkTemplate) BenchmarkTemplateView {
	return BenchmarkTemplateView{
		TemplateID:         tpl.ID,
		TenantID:           tpl.TenantID,
		Name:               tpl.Name,
		ActivityTemplateID: tpl.ActivityTemplateID,
		Unit:               tpl.Unit,
		Direction:          tpl.Direction,
		CreatedAt:          tpl.CreatedAt,
		UpdatedAt:          tpl.UpdatedAt,
	}
}
