package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/auth"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/persistence/memory"
)

func newTestHandler() *Handler {
	users := domain.NewUserService(memory.NewUserStore())
	gyms := domain.NewGymService(memory.NewGymStore())
	activities := memory.NewActivityTemplateStore()
	templates := domain.NewTemplateService(activities, memory.NewBenchmarkTemplateStore())
	programs := domain.NewProgramService(memory.NewProgramStore(), activities)
	schedules := domain.NewScheduleService(memory.NewScheduleStore())

	return NewHandler(HandlerConfig{
		Users:     users,
		Gyms:      gyms,
		Templates: templates,
		Programs:  programs,
		Schedules: schedules,
		Auth:      auth.Config{Secret: "test-secret", Issuer: "test"},
		TokenTTL:  time.Hour,
	})
}

func authedRequest(method, target string, body any, claims *auth.Claims) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	return req
}

func coachClaims() *auth.Claims {
	return &auth.Claims{
		Subject:   "coach-1",
		TenantID:  "tenant-1",
		GymID:     "gym-1",
		Role:      domain.RoleCoach,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestCreateScheduleSuccess(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/schedule-templates", SaveScheduleRequest{
		GymID: "gym-1",
		Name:  "Weekday Classes",
		Timeslots: []domain.Timeslot{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", LocationID: "room-a", CoachID: "coach-1"},
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", LocationID: "room-a", CoachID: "coach-1"},
		},
	}, coachClaims())

	rr := httptest.NewRecorder()
	handler.schedulesCollection(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ScheduleView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ScheduleID == "" {
		t.Fatal("expected schedule_id to be set")
	}
	if len(resp.Timeslots) != 2 {
		t.Fatalf("expected 2 timeslots got %d", len(resp.Timeslots))
	}
}

func TestCreateScheduleConflictRejected(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/schedule-templates", SaveScheduleRequest{
		GymID: "gym-1",
		Name:  "Overlapping",
		Timeslots: []domain.Timeslot{
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00", LocationID: "room-a"},
			{DayOfWeek: 2, StartTime: "09:30", EndTime: "10:30", LocationID: "room-a"},
		},
	}, coachClaims())

	rr := httptest.NewRecorder()
	handler.schedulesCollection(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Type      string   `json:"type"`
		Conflicts []string `json:"conflicts"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Type != "schedule_conflicts" {
		t.Fatalf("expected type schedule_conflicts got %s", resp.Type)
	}
	if len(resp.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict got %d: %v", len(resp.Conflicts), resp.Conflicts)
	}
}

func TestCreateScheduleInvalidTimeRejected(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/schedule-templates", SaveScheduleRequest{
		GymID: "gym-1",
		Name:  "Bad Times",
		Timeslots: []domain.Timeslot{
			{DayOfWeek: 1, StartTime: "25:00", EndTime: "26:00"},
		},
	}, coachClaims())

	rr := httptest.NewRecorder()
	handler.schedulesCollection(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestUpdateScheduleConflictLeavesStoredUntouched(t *testing.T) {
	handler := newTestHandler()
	claims := coachClaims()

	create := authedRequest(http.MethodPost, "/v1/schedule-templates", SaveScheduleRequest{
		GymID: "gym-1",
		Name:  "Original",
		Timeslots: []domain.Timeslot{
			{DayOfWeek: 3, StartTime: "08:00", EndTime: "09:00", CoachID: "coach-2"},
		},
	}, claims)
	rr := httptest.NewRecorder()
	handler.schedulesCollection(rr, create)
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d %s", rr.Code, rr.Body.String())
	}
	var created ScheduleView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	update := authedRequest(http.MethodPut, "/v1/schedule-templates/"+created.ScheduleID, SaveScheduleRequest{
		Name: "Broken",
		Timeslots: []domain.Timeslot{
			{DayOfWeek: 4, StartTime: "08:00", EndTime: "09:30", CoachID: "coach-2"},
			{DayOfWeek: 4, StartTime: "09:00", EndTime: "10:00", CoachID: "coach-2"},
		},
	}, claims)
	rr = httptest.NewRecorder()
	handler.scheduleByID(rr, update)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	get := authedRequest(http.MethodGet, "/v1/schedule-templates/"+created.ScheduleID, nil, claims)
	rr = httptest.NewRecorder()
	handler.scheduleByID(rr, get)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var stored ScheduleView
	if err := json.Unmarshal(rr.Body.Bytes(), &stored); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stored.Name != "Original" {
		t.Fatalf("expected stored schedule unchanged, got name %s", stored.Name)
	}
}

func TestDeleteScheduleRequiresOwnerRole(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodDelete, "/v1/schedule-templates/sched-1", nil, coachClaims())
	rr := httptest.NewRecorder()
	handler.scheduleByID(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}

func TestScheduleRequiresAuth(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodGet, "/v1/schedule-templates", nil, nil)
	rr := httptest.NewRecorder()
	handler.schedulesCollection(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
