// Package api exposes HTTP handlers for the gym manager service.
package api

import (
	"net/http"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/auth"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	users     *domain.UserService
	gyms      *domain.GymService
	templates *domain.TemplateService
	programs  *domain.ProgramService
	schedules *domain.ScheduleService
	authCfg   auth.Config
	tokenTTL  time.Duration
}

// HandlerConfig bundles the collaborators needed by the API layer.
type HandlerConfig struct {
	Users     *domain.UserService
	Gyms      *domain.GymService
	Templates *domain.TemplateService
	Programs  *domain.ProgramService
	Schedules *domain.ScheduleService
	Auth      auth.Config
	TokenTTL  time.Duration
}

// NewHandler builds a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		users:     cfg.Users,
		gyms:      cfg.Gyms,
		templates: cfg.Templates,
		programs:  cfg.Programs,
		schedules: cfg.Schedules,
		authCfg:   cfg.Auth,
		tokenTTL:  cfg.TokenTTL,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/auth/login", h.login)
	mux.HandleFunc("/v1/users", h.usersCollection)
	mux.HandleFunc("/v1/users/", h.userByID)
	mux.HandleFunc("/v1/gyms", h.gymsCollection)
	mux.HandleFunc("/v1/gyms/", h.gymByID)
	mux.HandleFunc("/v1/activity-templates", h.activityTemplates)
	mux.HandleFunc("/v1/activity-templates/", h.activityTemplateByID)
	mux.HandleFunc("/v1/benchmark-templates", h.benchmarkTemplates)
	mux.HandleFunc("/v1/benchmark-templates/", h.benchmarkTemplateByID)
	mux.HandleFunc("/v1/workout-programs", h.programsCollection)
	mux.HandleFunc("/v1/workout-programs/", h.programByID)
	mux.HandleFunc("/v1/schedule-templates", h.schedulesCollection)
	mux.HandleFunc("/v1/schedule-templates/", h.scheduleByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireClaims extracts claims or writes 401, returning ok=false.
func requireClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	return claims, true
}

// requireRole writes 403 and returns false unless the claims carry one of roles.
func requireRole(w http.ResponseWriter, claims *auth.Claims, roles ...string) bool {
	if claims.HasRole(roles...) {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
	return false
}
