package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/auth"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func seedProgram(t *testing.T, handler *Handler, claims *auth.Claims, req SaveProgramRequest) ProgramView {
	t.Helper()
	create := authedRequest(http.MethodPost, "/v1/workout-programs", req, claims)
	rr := httptest.NewRecorder()
	handler.programsCollection(rr, create)
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d %s", rr.Code, rr.Body.String())
	}
	var created ProgramView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return created
}

func seedActivityTemplate(t *testing.T, handler *Handler, tenantID, name, group string) string {
	t.Helper()
	tpl, err := handler.templates.CreateActivityTemplate(context.Background(), domain.CreateActivityTemplateInput{
		TenantID: tenantID,
		GymID:    "gym-1",
		Name:     name,
		Type:     domain.ActivityTypeStrength,
		Group:    group,
	})
	if err != nil {
		t.Fatalf("setup template failed: %v", err)
	}
	return tpl.ID
}

func TestProgramVolumeReport(t *testing.T) {
	handler := newTestHandler()
	claims := coachClaims()

	squatID := seedActivityTemplate(t, handler, claims.TenantID, "Back Squat", "squat")
	pressID := seedActivityTemplate(t, handler, claims.TenantID, "Bench Press", "press")

	created := seedProgram(t, handler, claims, SaveProgramRequest{
		GymID: "gym-1",
		Name:  "Strength Cycle",
		Blocks: []domain.Block{
			{
				Name:    "Accumulation",
				Targets: []domain.VolumeTarget{{Group: "squat", Percent: 60}},
				Weeks: []domain.Week{
					{Days: []domain.Day{{DayOfWeek: 1, Activities: []domain.Activity{
						{TemplateID: squatID, Type: domain.ActivityTypeStrength, Sets: 3, Reps: 5},
						{TemplateID: pressID, Type: domain.ActivityTypeStrength, Sets: 3, Reps: 5},
					}}}},
				},
			},
		},
	})

	req := authedRequest(http.MethodGet, "/v1/workout-programs/"+created.ProgramID+"/volume", nil, claims)
	rr := httptest.NewRecorder()
	handler.programByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp VolumeReportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Blocks) != 1 {
		t.Fatalf("expected 1 block got %d", len(resp.Blocks))
	}
	block := resp.Blocks[0]
	if block.Actual["squat"] != 50 || block.Actual["press"] != 50 {
		t.Fatalf("expected 50/50 split got %v", block.Actual)
	}
	if len(block.Targets) != 1 || block.Targets[0].Percent != 60 {
		t.Fatalf("expected declared target preserved, got %v", block.Targets)
	}
}

func TestProgramVolumeNotFound(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodGet, "/v1/workout-programs/missing/volume", nil, coachClaims())
	rr := httptest.NewRecorder()
	handler.programByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestCreateProgramRejectsStrengthWithoutReps(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/workout-programs", SaveProgramRequest{
		GymID: "gym-1",
		Name:  "Broken",
		Blocks: []domain.Block{
			{
				Name: "Week One",
				Weeks: []domain.Week{
					{Days: []domain.Day{{DayOfWeek: 1, Activities: []domain.Activity{
						{TemplateID: "tpl-1", Type: domain.ActivityTypeStrength, Sets: 3},
					}}}},
				},
			},
		},
	}, coachClaims())

	rr := httptest.NewRecorder()
	handler.programsCollection(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestClientReadsOnlyOwnProgram(t *testing.T) {
	handler := newTestHandler()
	coach := coachClaims()

	mine := seedProgram(t, handler, coach, SaveProgramRequest{
		GymID: "gym-1", ClientID: "client-1", Name: "Mine",
	})
	other := seedProgram(t, handler, coach, SaveProgramRequest{
		GymID: "gym-1", ClientID: "client-2", Name: "Theirs",
	})

	client := &auth.Claims{
		Subject:   "client-1",
		TenantID:  "tenant-1",
		GymID:     "gym-1",
		Role:      domain.RoleClient,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	req := authedRequest(http.MethodGet, "/v1/workout-programs/"+mine.ProgramID, nil, client)
	rr := httptest.NewRecorder()
	handler.programByID(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for own program got %d", rr.Code)
	}

	req = authedRequest(http.MethodGet, "/v1/workout-programs/"+other.ProgramID, nil, client)
	rr = httptest.NewRecorder()
	handler.programByID(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another client's program got %d", rr.Code)
	}
}

func TestListProgramsForbiddenForClients(t *testing.T) {
	handler := newTestHandler()

	client := &auth.Claims{
		Subject:   "client-1",
		TenantID:  "tenant-1",
		Role:      domain.RoleClient,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	req := authedRequest(http.MethodGet, "/v1/workout-programs", nil, client)
	rr := httptest.NewRecorder()
	handler.programsCollection(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}

func TestCoachBecomesProgramCoachByDefault(t *testing.T) {
	handler := newTestHandler()
	claims := coachClaims()

	created := seedProgram(t, handler, claims, SaveProgramRequest{
		GymID: "gym-1", Name: "Self-Coached",
	})
	if created.CoachID != claims.Subject {
		t.Fatalf("expected coach_id %s got %s", claims.Subject, created.CoachID)
	}
}
