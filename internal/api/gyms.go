package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func (h *Handler) gymsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createGym(w, r)
	case http.MethodGet:
		h.listGyms(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) gymByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/gyms/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing gym id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getGym(w, r, id)
	case http.MethodPut:
		h.updateGym(w, r, id)
	case http.MethodDelete:
		h.deleteGym(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createGym(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin) {
		return
	}

	var req CreateGymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	gym, err := h.gyms.CreateGym(r.Context(), domain.CreateGymInput{
		TenantID: claims.TenantID,
		Name:     req.Name,
		Address:  req.Address,
		OwnerID:  req.OwnerID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toGymView(*gym))
}

func (h *Handler) getGym(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	gym, err := h.gyms.GetGym(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrGymNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "gym not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toGymView(*gym))
}

func (h *Handler) listGyms(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	gyms, err := h.gyms.ListGyms(r.Context(), claims.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]GymView, 0, len(gyms))
	for _, gym := range gyms {
		items = append(items, toGymView(gym))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) updateGym(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}
	// Gym owners may only update the gym they own.
	if claims.HasRole(domain.RoleGymOwner) && !claims.HasRole(domain.RoleAdmin) {
		existing, err := h.gyms.GetGym(r.Context(), claims.TenantID, id)
		if err != nil {
			if errors.Is(err, domain.ErrGymNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "gym not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		if existing.OwnerID != claims.Subject {
			writeError(w, http.StatusForbidden, "forbidden", "not the owner of this gym")
			return
		}
	}

	var req UpdateGymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	gym, err := h.gyms.UpdateGym(r.Context(), claims.TenantID, id, domain.UpdateGymInput{
		Name:    req.Name,
		Address: req.Address,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGymNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "gym not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toGymView(*gym))
}

func (h *Handler) deleteGym(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin) {
		return
	}

	if err := h.gyms.DeleteGym(r.Context(), claims.TenantID, id); err != nil {
		if errors.Is(err, domain.ErrGymNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "gym not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateGymRequest is the payload for POST /v1/gyms.
type CreateGymRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

// Validate ensures request correctness.
func (r CreateGymRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// UpdateGymRequest is the payload for PUT /v1/gyms/{id}.
type UpdateGymRequest struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

// GymView exposes full details about a gym.
type GymView struct {
	GymID     string    `json:"gym_id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	OwnerID   string    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toGymView(gym domain.Gym) GymView {
	return GymView{
		GymID:     gym.ID,
		TenantID:  gym.TenantID,
		Name:      gym.Name,
		Address:   gym.Address,
		OwnerID:   gym.OwnerID,
		CreatedAt: gym.CreatedAt,
		UpdatedAt: gym.UpdatedAt,
	}
}
