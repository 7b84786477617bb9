package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/auth"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func ownerClaims() *auth.Claims {
	return &auth.Claims{
		Subject:   "owner-1",
		TenantID:  "tenant-1",
		GymID:     "gym-1",
		Role:      domain.RoleGymOwner,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func seedUser(t *testing.T, handler *Handler, claims *auth.Claims, req CreateUserRequest) UserView {
	t.Helper()
	create := authedRequest(http.MethodPost, "/v1/users", req, claims)
	rr := httptest.NewRecorder()
	handler.usersCollection(rr, create)
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d %s", rr.Code, rr.Body.String())
	}
	var created UserView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return created
}

func TestCreateUserAndLogin(t *testing.T) {
	handler := newTestHandler()
	owner := ownerClaims()

	created := seedUser(t, handler, owner, CreateUserRequest{
		Email:    "coach@example.com",
		Name:     "Casey Coach",
		Role:     domain.RoleCoach,
		Password: "correct-horse",
		GymID:    "gym-1",
	})
	if created.Role != domain.RoleCoach {
		t.Fatalf("expected role coach got %s", created.Role)
	}

	login := authedRequest(http.MethodPost, "/v1/auth/login", LoginRequest{
		Email:    "coach@example.com",
		Password: "correct-horse",
	}, nil)
	rr := httptest.NewRecorder()
	handler.login(rr, login)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected token to be issued")
	}
	if resp.User.UserID != created.UserID {
		t.Fatalf("expected user %s got %s", created.UserID, resp.User.UserID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	handler := newTestHandler()
	seedUser(t, handler, ownerClaims(), CreateUserRequest{
		Email:    "coach@example.com",
		Name:     "Casey Coach",
		Role:     domain.RoleCoach,
		Password: "correct-horse",
	})

	login := authedRequest(http.MethodPost, "/v1/auth/login", LoginRequest{
		Email:    "coach@example.com",
		Password: "wrong-horse",
	}, nil)
	rr := httptest.NewRecorder()
	handler.login(rr, login)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestOwnerCannotMintAdmin(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/users", CreateUserRequest{
		Email:    "boss@example.com",
		Name:     "Big Boss",
		Role:     domain.RoleAdmin,
		Password: "super-secret",
	}, ownerClaims())
	rr := httptest.NewRecorder()
	handler.usersCollection(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDuplicateEmailConflict(t *testing.T) {
	handler := newTestHandler()
	owner := ownerClaims()
	seedUser(t, handler, owner, CreateUserRequest{
		Email:    "dup@example.com",
		Name:     "First",
		Role:     domain.RoleClient,
		Password: "password1",
	})

	req := authedRequest(http.MethodPost, "/v1/users", CreateUserRequest{
		Email:    "dup@example.com",
		Name:     "Second",
		Role:     domain.RoleClient,
		Password: "password2",
	}, owner)
	rr := httptest.NewRecorder()
	handler.usersCollection(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestClientReadsOnlySelf(t *testing.T) {
	handler := newTestHandler()
	owner := ownerClaims()
	me := seedUser(t, handler, owner, CreateUserRequest{
		Email:    "me@example.com",
		Name:     "Me",
		Role:     domain.RoleClient,
		Password: "password1",
	})
	other := seedUser(t, handler, owner, CreateUserRequest{
		Email:    "other@example.com",
		Name:     "Other",
		Role:     domain.RoleClient,
		Password: "password2",
	})

	client := &auth.Claims{
		Subject:   me.UserID,
		TenantID:  "tenant-1",
		Role:      domain.RoleClient,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	req := authedRequest(http.MethodGet, "/v1/users/"+me.UserID, nil, client)
	rr := httptest.NewRecorder()
	handler.userByID(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for own record got %d", rr.Code)
	}

	req = authedRequest(http.MethodGet, "/v1/users/"+other.UserID, nil, client)
	rr = httptest.NewRecorder()
	handler.userByID(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another user's record got %d", rr.Code)
	}
}

func TestListUsersPaginates(t *testing.T) {
	handler := newTestHandler()
	owner := ownerClaims()
	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for i, email := range emails {
		seedUser(t, handler, owner, CreateUserRequest{
			Email:    email,
			Name:     "User " + email,
			Role:     domain.RoleClient,
			Password: "password" + string(rune('0'+i)),
		})
	}

	req := authedRequest(http.MethodGet, "/v1/users?limit=2", nil, owner)
	rr := httptest.NewRecorder()
	handler.usersCollection(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var page ListUsersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next_cursor on a full page")
	}

	req = authedRequest(http.MethodGet, "/v1/users?limit=2&cursor="+url.QueryEscape(page.NextCursor), nil, owner)
	rr = httptest.NewRecorder()
	handler.usersCollection(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var rest ListUsersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &rest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rest.Items) != 1 {
		t.Fatalf("expected 1 remaining item got %d", len(rest.Items))
	}
}

func TestSetDefaultTemplateSwap(t *testing.T) {
	handler := newTestHandler()
	owner := ownerClaims()

	firstID := seedActivityTemplate(t, handler, owner.TenantID, "Back Squat", "squat")
	secondID := seedActivityTemplate(t, handler, owner.TenantID, "Front Squat", "squat")

	promote := func(id string) ActivityTemplateView {
		req := authedRequest(http.MethodPost, "/v1/activity-templates/"+id+"/default", nil, owner)
		rr := httptest.NewRecorder()
		handler.activityTemplateByID(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("promote failed: %d %s", rr.Code, rr.Body.String())
		}
		var view ActivityTemplateView
		if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return view
	}

	if view := promote(firstID); !view.IsDefault {
		t.Fatal("expected first template to become default")
	}
	if view := promote(secondID); !view.IsDefault {
		t.Fatal("expected second template to become default")
	}

	req := authedRequest(http.MethodGet, "/v1/activity-templates/"+firstID, nil, owner)
	rr := httptest.NewRecorder()
	handler.activityTemplateByID(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var first ActivityTemplateView
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if first.IsDefault {
		t.Fatal("expected first template to be demoted after swap")
	}
}
