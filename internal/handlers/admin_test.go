package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/votekeep/votekeep/internal/handlers"
	"github.com/votekeep/votekeep/internal/models"
)

// adminLogin authenticates with the test password and returns the session cookie
func (s *testSetup) adminLogin(t *testing.T) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(handlers.LoginRequest{Password: "test-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "votekeep_session" {
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

// adminRequest performs an authenticated request against the admin API
func (s *testSetup) adminRequest(t *testing.T, cookie *http.Cookie, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, body)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutes_RequireAuth(t *testing.T) {
	setup := newTestSetup(t)

	routes := []struct {
		method string
		url    string
	}{
		{http.MethodPost, "/api/admin/elections"},
		{http.MethodDelete, fmt.Sprintf("/api/admin/elections/%d", setup.electionID)},
		{http.MethodPost, "/api/admin/elections/resolve-status"},
		{http.MethodPost, fmt.Sprintf("/api/admin/elections/%d/voters", setup.electionID)},
		{http.MethodGet, fmt.Sprintf("/api/admin/elections/%d/turnout", setup.electionID)},
	}
	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.url, nil)
		rec := httptest.NewRecorder()
		setup.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.url, rec.Code)
		}
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	setup := newTestSetup(t)

	body, _ := json.Marshal(handlers.LoginRequest{Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	setup.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLogout_InvalidatesSession(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodPost, "/api/admin/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", rec.Code)
	}

	rec = setup.adminRequest(t, cookie, http.MethodGet,
		fmt.Sprintf("/api/admin/elections/%d/turnout", setup.electionID), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestHandleCreateElection_Success(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodPost, "/api/admin/elections",
		handlers.ElectionCreateRequest{
			Name:     "Board Election",
			StartsAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			EndsAt:   time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var election models.Election
	if err := json.NewDecoder(rec.Body).Decode(&election); err != nil {
		t.Fatalf("failed to decode election: %v", err)
	}
	if election.ID == 0 {
		t.Error("expected an election ID")
	}
	if election.Status != models.StatusUpcoming {
		t.Errorf("status = %q, want upcoming", election.Status)
	}
}

func TestHandleCreateElection_BadTimestamp(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodPost, "/api/admin/elections",
		handlers.ElectionCreateRequest{
			Name:     "Board Election",
			StartsAt: "tomorrow",
			EndsAt:   time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCreateElection_InvertedWindow(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodPost, "/api/admin/elections",
		handlers.ElectionCreateRequest{
			Name:     "Board Election",
			StartsAt: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			EndsAt:   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleDeleteElection(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodDelete,
		fmt.Sprintf("/api/admin/elections/%d", setup.electionID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/elections/%d", setup.electionID), nil)
	getRec := httptest.NewRecorder()
	setup.router.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", getRec.Code)
	}
}

func TestHandleDeleteElection_BlockedByVotes(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.submitBallot(t, setup.voterToken, map[string][]int{
		fmt.Sprint(setup.positionID): {setup.candidateA},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ballot submission failed: %d", rec.Code)
	}

	rec = setup.adminRequest(t, cookie, http.MethodDelete,
		fmt.Sprintf("/api/admin/elections/%d", setup.electionID), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleCreatePositionAndCandidate(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodPost,
		fmt.Sprintf("/api/admin/elections/%d/positions", setup.electionID),
		handlers.PositionCreateRequest{Name: "Treasurer", MaxSelections: 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create position: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var position models.Position
	if err := json.NewDecoder(rec.Body).Decode(&position); err != nil {
		t.Fatalf("failed to decode position: %v", err)
	}

	rec = setup.adminRequest(t, cookie, http.MethodPost,
		fmt.Sprintf("/api/admin/positions/%d/candidates", position.ID),
		handlers.CandidateCreateRequest{Name: "Grace Kim", Party: "Independent"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create candidate: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var candidate models.Candidate
	if err := json.NewDecoder(rec.Body).Decode(&candidate); err != nil {
		t.Fatalf("failed to decode candidate: %v", err)
	}
	if candidate.PositionID != position.ID {
		t.Errorf("candidate position = %d, want %d", candidate.PositionID, position.ID)
	}
}

func TestHandleRegisterVoter(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.adminRequest(t, cookie, http.MethodPost,
		fmt.Sprintf("/api/admin/elections/%d/voters", setup.electionID),
		handlers.VoterCreateRequest{Name: "Grace Kim", Email: "grace@example.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var voter handlers.VoterResponse
	if err := json.NewDecoder(rec.Body).Decode(&voter); err != nil {
		t.Fatalf("failed to decode voter: %v", err)
	}
	if voter.AccessCode == "" {
		t.Error("expected an access code")
	}
	if voter.Status != "uncast" {
		t.Errorf("status = %q, want uncast", voter.Status)
	}

	rec = setup.adminRequest(t, cookie, http.MethodGet,
		fmt.Sprintf("/api/admin/elections/%d/voters", setup.electionID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list voters: expected 200, got %d", rec.Code)
	}
	var voters []models.Voter
	if err := json.NewDecoder(rec.Body).Decode(&voters); err != nil {
		t.Fatalf("failed to decode voters: %v", err)
	}
	if len(voters) != 2 {
		t.Errorf("expected 2 voters, got %d", len(voters))
	}
}

func TestHandleResolveStatuses(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	// Stored as upcoming but the window is already open
	_, err := setup.repo.DB().Exec(`UPDATE elections SET status = 'upcoming' WHERE id = ?`, setup.electionID)
	if err != nil {
		t.Fatalf("failed to reset status: %v", err)
	}

	rec := setup.adminRequest(t, cookie, http.MethodPost, "/api/admin/elections/resolve-status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.ResolveStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(resp.Changes))
	}
	change := resp.Changes[0]
	if change.ElectionID != setup.electionID {
		t.Errorf("election = %d, want %d", change.ElectionID, setup.electionID)
	}
	if change.OldStatus != models.StatusUpcoming || change.NewStatus != models.StatusActive {
		t.Errorf("transition = %s -> %s, want upcoming -> active", change.OldStatus, change.NewStatus)
	}
	if len(resp.Failures) != 0 {
		t.Errorf("expected no failures, got %d", len(resp.Failures))
	}
}

func TestHandleGetTurnout(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.adminLogin(t)

	rec := setup.submitBallot(t, setup.voterToken, map[string][]int{
		fmt.Sprint(setup.positionID): {setup.candidateA},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ballot submission failed: %d", rec.Code)
	}

	rec = setup.adminRequest(t, cookie, http.MethodGet,
		fmt.Sprintf("/api/admin/elections/%d/turnout", setup.electionID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats["registered_voters"].(float64) != 1 {
		t.Errorf("registered_voters = %v, want 1", stats["registered_voters"])
	}
	if stats["ballots_cast"].(float64) != 1 {
		t.Errorf("ballots_cast = %v, want 1", stats["ballots_cast"])
	}
}
