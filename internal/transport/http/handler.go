package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"debug-challenge-service/internal/app"
	"debug-challenge-service/internal/domain"
)

// Handler exposes the challenge core over REST. Routing follows the original
// platform's API surface; evaluation and scoring happen server-side.
type Handler struct {
	service *app.ChallengeService
}

func NewHandler(service *app.ChallengeService) *Handler {
	return &Handler{service: service}
}

// Register mounts all API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/challenge/start", h.startChallenge)
	mux.HandleFunc("GET /api/challenge/progress", h.resumeChallenge)
	mux.HandleFunc("PUT /api/challenge/progress", h.saveProgress)
	mux.HandleFunc("DELETE /api/challenge/progress", h.clearProgress)
	mux.HandleFunc("POST /api/challenge/check", h.runCheck)
	mux.HandleFunc("POST /api/challenge/submit", h.submit)
	mux.HandleFunc("POST /api/team/exists", h.teamExists)
	mux.HandleFunc("GET /api/questions", h.listQuestions)
	mux.HandleFunc("POST /api/questions", h.createQuestion)
	mux.HandleFunc("PUT /api/questions/{id}", h.updateQuestion)
	mux.HandleFunc("DELETE /api/questions/{id}", h.deleteQuestion)
	mux.HandleFunc("GET /api/settings", h.getSettings)
	mux.HandleFunc("PUT /api/settings", h.updateSettings)
	mux.HandleFunc("GET /api/results", h.leaderboard)
	mux.HandleFunc("GET /api/analytics", h.analytics)
}

type teamPayload struct {
	Member1 string `json:"member1"`
	Member2 string `json:"member2"`
}

func (p teamPayload) team() domain.Team {
	return domain.Team{Member1: p.Member1, Member2: p.Member2}
}

func (h *Handler) startChallenge(w http.ResponseWriter, r *http.Request) {
	var payload teamPayload
	if !decode(w, r, &payload) {
		return
	}
	progress, err := h.service.StartChallenge(r.Context(), payload.team())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, progress)
}

func (h *Handler) resumeChallenge(w http.ResponseWriter, r *http.Request) {
	team := teamFromQuery(r)
	progress, err := h.service.ResumeChallenge(r.Context(), team)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) saveProgress(w http.ResponseWriter, r *http.Request) {
	var progress domain.Progress
	if !decode(w, r, &progress) {
		return
	}
	if err := h.service.SaveProgress(r.Context(), progress); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearProgress(r.Context(), teamFromQuery(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) runCheck(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		teamPayload
		QuestionID string `json:"questionId"`
		Code       string `json:"code"`
	}
	if !decode(w, r, &payload) {
		return
	}
	check, err := h.service.RunCheck(r.Context(), payload.team(), payload.QuestionID, payload.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		teamPayload
		Forced bool `json:"forced"`
	}
	if !decode(w, r, &payload) {
		return
	}
	result, err := h.service.Submit(r.Context(), payload.team(), payload.Forced)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) teamExists(w http.ResponseWriter, r *http.Request) {
	var payload teamPayload
	if !decode(w, r, &payload) {
		return
	}
	exists, err := h.service.TeamAlreadyCompleted(r.Context(), payload.Member1, payload.Member2)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var question domain.Question
	if !decode(w, r, &question) {
		return
	}
	created, err := h.service.CreateQuestion(r.Context(), question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var question domain.Question
	if !decode(w, r, &question) {
		return
	}
	question.ID = r.PathValue("id")
	if err := h.service.UpdateQuestion(r.Context(), question); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuestion(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if !decode(w, r, &settings) {
		return
	}
	if err := h.service.UpdateSettings(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.ComputeAnalytics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func teamFromQuery(r *http.Request) domain.Team {
	return domain.Team{
		Member1: r.URL.Query().Get("member1"),
		Member2: r.URL.Query().Get("member2"),
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps domain sentinels to specific statuses; anything else is a
// transient storage failure surfaced as a generic, retryable message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTeamIncomplete),
		errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, domain.ErrNoQuestions):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, domain.ErrTeamAlreadyCompleted):
		writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrNoProgress):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
	default:
		log.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "temporary failure, please retry"})
	}
}
