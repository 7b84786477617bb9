package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func TestCreateActivityTemplateRequiresGym(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/activity-templates", CreateActivityTemplateRequest{
		Name: "Back Squat",
		Type: domain.ActivityTypeStrength,
	}, ownerClaims())
	rr := httptest.NewRecorder()
	handler.activityTemplates(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Type   string `json:"type"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Type != "validation_failed" {
		t.Fatalf("expected validation_failed got %s", resp.Type)
	}
}

func TestCreateActivityTemplateSuccess(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/activity-templates", CreateActivityTemplateRequest{
		GymID: "gym-1",
		Name:  "Back Squat",
		Type:  domain.ActivityTypeStrength,
		Group: "squat",
	}, ownerClaims())
	rr := httptest.NewRecorder()
	handler.activityTemplates(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var view ActivityTemplateView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.GymID != "gym-1" {
		t.Fatalf("expected gym_id gym-1 got %s", view.GymID)
	}
	if view.IsDefault {
		t.Fatal("new templates must not be default until promoted")
	}
}
