package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"debug-challenge-service/internal/app"
	"debug-challenge-service/internal/domain"
	"debug-challenge-service/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := app.NewChallengeService(
		memory.NewQuestionRepository(sampleQuestions()),
		memory.NewSettingsStore(),
		memory.NewResultRepository(),
		memory.NewAttemptLog(),
		memory.NewProgressStore(),
	)

	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	mux.HandleFunc("/ws/leaderboard", NewWSHandler(service).ServeLeaderboard)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:                 "q1",
			Description:        "fix the sum",
			BuggyCode:          "return a + b  # concatenates",
			FixedCodeSolutions: []string{"return int(a) + int(b)"},
			ExpectedOutput:     "15",
			OriginalError:      "TypeError",
			Order:              1,
		},
		{
			ID:                 "q2",
			Description:        "fix the range",
			BuggyCode:          "for i in range(\"5\"):",
			FixedCodeSolutions: []string{"for i in range(5):"},
			ExpectedOutput:     "0..4",
			OriginalError:      "TypeError",
			Order:              2,
		},
	}
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestChallengeFlow(t *testing.T) {
	server := newTestServer(t)
	team := map[string]string{"member1": "Ada", "member2": "Grace"}

	var progress domain.Progress
	resp := doJSON(t, http.MethodPost, server.URL+"/api/challenge/start", team, &progress)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	if progress.Answers["q1"] != "return a + b  # concatenates" {
		t.Fatalf("expected prefilled answer, got %q", progress.Answers["q1"])
	}

	var check domain.CheckResult
	resp = doJSON(t, http.MethodPost, server.URL+"/api/challenge/check", map[string]string{
		"member1":    "Ada",
		"member2":    "Grace",
		"questionId": "q1",
		"code":       "return int(a) + int(b)\r\n",
	}, &check)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check status = %d", resp.StatusCode)
	}
	if !check.Correct {
		t.Fatalf("expected normalized answer to pass the check")
	}

	progress.Answers["q1"] = "return int(a) + int(b)"
	resp = doJSON(t, http.MethodPut, server.URL+"/api/challenge/progress", progress, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("save progress status = %d", resp.StatusCode)
	}

	var result domain.Result
	resp = doJSON(t, http.MethodPost, server.URL+"/api/challenge/submit", map[string]any{
		"member1": "Ada", "member2": "Grace", "forced": false,
	}, &result)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}
	if result.Score != 1 {
		t.Fatalf("expected score 1, got %d", result.Score)
	}

	// The pair is now locked out, in either member order.
	var exists map[string]bool
	resp = doJSON(t, http.MethodPost, server.URL+"/api/team/exists", map[string]string{
		"member1": "Grace", "member2": "Ada",
	}, &exists)
	if resp.StatusCode != http.StatusOK || !exists["exists"] {
		t.Fatalf("expected exists=true, status=%d exists=%v", resp.StatusCode, exists)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/challenge/start", team, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("restart status = %d, want 409", resp.StatusCode)
	}

	var lb domain.Leaderboard
	resp = doJSON(t, http.MethodGet, server.URL+"/api/results", nil, &lb)
	if resp.StatusCode != http.StatusOK || len(lb.Entries) != 1 {
		t.Fatalf("leaderboard status=%d entries=%d", resp.StatusCode, len(lb.Entries))
	}
}

func TestStartRejectsIncompleteTeam(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/challenge/start", map[string]string{
		"member1": "Ada", "member2": "   ",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubmitWithoutProgressIs404(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/challenge/submit", map[string]any{
		"member1": "Ada", "member2": "Grace",
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestQuestionAdminEndpoints(t *testing.T) {
	server := newTestServer(t)

	var created domain.Question
	resp := doJSON(t, http.MethodPost, server.URL+"/api/questions", domain.Question{
		Description:        "fix the print",
		BuggyCode:          "print 'hi'",
		FixedCodeSolutions: []string{"print('hi')"},
		Order:              3,
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if created.ID == "" {
		t.Fatalf("expected a generated question id")
	}

	created.Description = "fix the print statement"
	resp = doJSON(t, http.MethodPut, server.URL+"/api/questions/"+created.ID, created, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	var questions []domain.Question
	resp = doJSON(t, http.MethodGet, server.URL+"/api/questions", nil, &questions)
	if resp.StatusCode != http.StatusOK || len(questions) != 3 {
		t.Fatalf("list status=%d len=%d", resp.StatusCode, len(questions))
	}
	if questions[2].Description != "fix the print statement" {
		t.Fatalf("update not visible: %+v", questions[2])
	}

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/questions/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, server.URL+"/api/questions/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("double delete status = %d, want 404", resp.StatusCode)
	}

	// Missing solutions fail validation.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/questions", domain.Question{
		Description: "no solutions",
		BuggyCode:   "x",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid create status = %d, want 400", resp.StatusCode)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	server := newTestServer(t)

	var settings domain.Settings
	resp := doJSON(t, http.MethodGet, server.URL+"/api/settings", nil, &settings)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if settings.TimerEnabled || settings.TimerDurationMinutes != 30 {
		t.Fatalf("unexpected defaults: %+v", settings)
	}

	resp = doJSON(t, http.MethodPut, server.URL+"/api/settings", domain.Settings{
		TimerEnabled: true, TimerDurationMinutes: 45,
	}, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, server.URL+"/api/settings", domain.Settings{
		TimerEnabled: true, TimerDurationMinutes: 0,
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid update status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/settings", nil, &settings)
	if resp.StatusCode != http.StatusOK || settings.TimerDurationMinutes != 45 {
		t.Fatalf("expected stored settings to survive invalid update: %+v", settings)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	server := newTestServer(t)
	team := map[string]string{"member1": "Ada", "member2": "Grace"}

	doJSON(t, http.MethodPost, server.URL+"/api/challenge/start", team, nil)
	doJSON(t, http.MethodPost, server.URL+"/api/challenge/submit", map[string]any{
		"member1": "Ada", "member2": "Grace",
	}, nil)

	var analytics domain.Analytics
	resp := doJSON(t, http.MethodGet, server.URL+"/api/analytics", nil, &analytics)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analytics status = %d", resp.StatusCode)
	}
	if analytics.FinishedTeamsCount != 1 {
		t.Fatalf("expected 1 finished team, got %d", analytics.FinishedTeamsCount)
	}
}
