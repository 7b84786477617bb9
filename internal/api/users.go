package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/persistence"
)

func (h *Handler) usersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) userByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getUser(w, r, id)
	case http.MethodPut:
		h.updateUser(w, r, id)
	case http.MethodDelete:
		h.deleteUser(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	// Only platform admins may mint other admins.
	if req.Role == domain.RoleAdmin && !claims.HasRole(domain.RoleAdmin) {
		writeError(w, http.StatusForbidden, "forbidden", "only admins may create admins")
		return
	}

	user, err := h.users.CreateUser(r.Context(), domain.CreateUserInput{
		TenantID: claims.TenantID,
		GymID:    req.GymID,
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
		case errors.Is(err, domain.ErrUnknownRole):
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown role")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserView(*user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	// Coaches and clients may only read their own record.
	if !claims.HasRole(domain.RoleAdmin, domain.RoleGymOwner) && claims.Subject != id {
		writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
		return
	}

	user, err := h.users.GetUser(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
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

	users, next, err := h.users.ListUsers(r.Context(), claims.TenantID, gymID, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]UserView, 0, len(users))
	for _, user := range users {
		items = append(items, toUserView(user))
	}
	writeJSON(w, http.StatusOK, ListUsersResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.Role == domain.RoleAdmin && !claims.HasRole(domain.RoleAdmin) {
		writeError(w, http.StatusForbidden, "forbidden", "only admins may grant the admin role")
		return
	}

	user, err := h.users.UpdateUser(r.Context(), claims.TenantID, id, domain.UpdateUserInput{
		Name:  req.Name,
		GymID: req.GymID,
		Role:  req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
		case errors.Is(err, domain.ErrUnknownRole):
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown role")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	if !requireRole(w, claims, domain.RoleAdmin, domain.RoleGymOwner) {
		return
	}

	if err := h.users.DeleteUser(r.Context(), claims.TenantID, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUserRequest is the payload for POST /v1/users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
	GymID    string `json:"gym_id,omitempty"`
}

// Validate ensures request correctness.
func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if !domain.ValidRole(r.Role) {
		return errors.New("role must be one of admin, gym_owner, coach, client")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// UpdateUserRequest is the payload for PUT /v1/users/{id}.
type UpdateUserRequest struct {
	Name  string `json:"name,omitempty"`
	GymID string `json:"gym_id,omitempty"`
	Role  string `json:"role,omitempty"`
}

// UserView exposes a user without credential material.
type UserView struct {
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	GymID     string    `json:"gym_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse packages list results.
type ListUsersResponse struct {
	Items      []UserView `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toUserView(user domain.User) UserView {
	return UserView{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		GymID:     user.GymID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
