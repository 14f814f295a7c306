package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"debug-challenge-service/internal/domain"
	"debug-challenge-service/internal/metrics"
)

// QuestionRepository stores the question set (in-memory, Postgres behind a
// Redis cache, etc).
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, q domain.Question) error
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

// SettingsStore holds the singleton timer configuration.
type SettingsStore interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, s domain.Settings) error
}

// ResultRepository persists final submission records, append-only.
type ResultRepository interface {
	SaveResult(ctx context.Context, r domain.Result) error
	ListResults(ctx context.Context) ([]domain.Result, error)
	TeamExists(ctx context.Context, member1, member2 string) (bool, error)
}

// AttemptLog records run/check events, append-only.
type AttemptLog interface {
	AppendAttempt(ctx context.Context, a domain.Attempt) error
	ListAttempts(ctx context.Context) ([]domain.Attempt, error)
}

// ProgressStore keeps per-team in-flight challenge state durably across
// client restarts.
type ProgressStore interface {
	SaveProgress(ctx context.Context, p domain.Progress) error
	// LoadProgress returns the stored progress, or ok=false when none exists
	// or the stored data is corrupt. Corrupt state is cleared, not surfaced.
	LoadProgress(ctx context.Context, team domain.Team) (domain.Progress, bool, error)
	ClearProgress(ctx context.Context, team domain.Team) error
}

// ChallengeService contains the core challenge use cases: starting and
// resuming runs, evaluating answers, final scoring, and analytics.
type ChallengeService struct {
	questions QuestionRepository
	settings  SettingsStore
	results   ResultRepository
	attempts  AttemptLog
	progress  ProgressStore
	board     *LeaderboardHub

	now  func() time.Time
	tick time.Duration

	mu     sync.Mutex
	timers map[string]*Timer
}

func NewChallengeService(questions QuestionRepository, settings SettingsStore, results ResultRepository, attempts AttemptLog, progress ProgressStore) *ChallengeService {
	return NewChallengeServiceWithClock(questions, settings, results, attempts, progress, time.Now)
}

// NewChallengeServiceWithClock allows deterministic timestamps in tests.
func NewChallengeServiceWithClock(questions QuestionRepository, settings SettingsStore, results ResultRepository, attempts AttemptLog, progress ProgressStore, now func() time.Time) *ChallengeService {
	return &ChallengeService{
		questions: questions,
		settings:  settings,
		results:   results,
		attempts:  attempts,
		progress:  progress,
		board:     NewLeaderboardHub(),
		now:       now,
		tick:      time.Second,
		timers:    make(map[string]*Timer),
	}
}

// StartChallenge begins a new run for the team: the gate rejects teams that
// already have a result, answers are prefilled with the buggy code, and a
// deadline is set when the timer is enabled.
func (s *ChallengeService) StartChallenge(ctx context.Context, team domain.Team) (domain.Progress, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return domain.Progress{}, err
	}

	exists, err := s.results.TeamExists(ctx, team.Member1, team.Member2)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("check team: %w", err)
	}
	if exists {
		return domain.Progress{}, domain.ErrTeamAlreadyCompleted
	}

	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return domain.Progress{}, domain.ErrNoQuestions
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load settings: %w", err)
	}

	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		answers[q.ID] = q.BuggyCode
	}

	progress := domain.Progress{
		Team:                 team,
		CurrentQuestionIndex: 0,
		Answers:              answers,
	}
	if settings.TimerEnabled {
		deadline := s.now().Add(time.Duration(settings.TimerDurationMinutes) * time.Minute)
		progress.Deadline = &deadline
	}

	if err := s.progress.SaveProgress(ctx, progress); err != nil {
		return domain.Progress{}, fmt.Errorf("save progress: %w", err)
	}
	if progress.Deadline != nil {
		s.startTimer(team, *progress.Deadline)
	}
	metrics.ChallengesStarted.Inc()
	return progress, nil
}

// ResumeChallenge reloads a team's saved progress after a client restart.
// If a deadline is stored the countdown restarts; a deadline that passed
// while the team was away triggers forced submission on the first tick.
func (s *ChallengeService) ResumeChallenge(ctx context.Context, team domain.Team) (domain.Progress, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return domain.Progress{}, err
	}
	progress, ok, err := s.progress.LoadProgress(ctx, team)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return domain.Progress{}, domain.ErrNoProgress
	}
	if progress.Deadline != nil {
		s.startTimer(team, *progress.Deadline)
	}
	return progress, nil
}

// SaveProgress overwrites the team's stored progress. Called on every
// answer edit and navigation step; idempotent.
func (s *ChallengeService) SaveProgress(ctx context.Context, progress domain.Progress) error {
	team, err := normalizeTeam(progress.Team)
	if err != nil {
		return err
	}
	progress.Team = team
	return s.progress.SaveProgress(ctx, progress)
}

// LoadProgress returns the team's stored progress, or ok=false when none.
func (s *ChallengeService) LoadProgress(ctx context.Context, team domain.Team) (domain.Progress, bool, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return domain.Progress{}, false, err
	}
	return s.progress.LoadProgress(ctx, team)
}

// ClearProgress drops the team's stored progress and cancels its timer.
// Used by the explicit "start new" flow.
func (s *ChallengeService) ClearProgress(ctx context.Context, team domain.Team) error {
	team, err := normalizeTeam(team)
	if err != nil {
		return err
	}
	s.stopTimer(team)
	return s.progress.ClearProgress(ctx, team)
}

// RunCheck evaluates the submitted code for one question and logs the
// attempt. The log append is fire-and-forget: a storage failure never
// blocks or fails the check.
func (s *ChallengeService) RunCheck(ctx context.Context, team domain.Team, questionID, code string) (domain.CheckResult, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return domain.CheckResult{}, err
	}
	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return domain.CheckResult{}, err
	}

	correct := IsCorrect(code, question.FixedCodeSolutions)
	s.logAttempt(team, questionID, correct)

	return domain.CheckResult{
		QuestionID:     questionID,
		Correct:        correct,
		ExpectedOutput: question.ExpectedOutput,
		OriginalError:  question.OriginalError,
	}, nil
}

// Submit performs final scoring for the team: every question is evaluated
// against the stored answer (the buggy code when unanswered), the result is
// persisted, and only then is the progress cleared. A failed result write
// leaves the progress intact so the submission can be retried.
func (s *ChallengeService) Submit(ctx context.Context, team domain.Team, forced bool) (domain.Result, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return domain.Result{}, err
	}

	progress, ok, err := s.progress.LoadProgress(ctx, team)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return domain.Result{}, domain.ErrNoProgress
	}

	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load questions: %w", err)
	}

	score := 0
	for _, q := range questions {
		answer, answered := progress.Answers[q.ID]
		if !answered {
			answer = q.BuggyCode
		}
		if IsCorrect(answer, q.FixedCodeSolutions) {
			score++
		}
	}

	result := domain.Result{Team: team, Score: score, CompletedAt: s.now()}
	if err := s.results.SaveResult(ctx, result); err != nil {
		return domain.Result{}, fmt.Errorf("save result: %w", err)
	}

	if err := s.progress.ClearProgress(ctx, team); err != nil {
		// The result is already durable; a stale progress record only means
		// the team sees a resumable run that will re-submit a duplicate.
		log.Printf("clear progress for team %s: %v", team.Key(), err)
	}
	s.stopTimer(team)
	metrics.Submissions.WithLabelValues(strconv.FormatBool(forced)).Inc()
	s.broadcastLeaderboard(ctx)
	return result, nil
}

// TeamAlreadyCompleted reports whether a result exists for the unordered
// pair {member1, member2}. Advisory only: the check and the eventual result
// insert are not atomic.
func (s *ChallengeService) TeamAlreadyCompleted(ctx context.Context, member1, member2 string) (bool, error) {
	team, err := normalizeTeam(domain.Team{Member1: member1, Member2: member2})
	if err != nil {
		return false, err
	}
	return s.results.TeamExists(ctx, team.Member1, team.Member2)
}

// Leaderboard returns the final standings ordered by score descending,
// earliest completion first on ties.
func (s *ChallengeService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	results, err := s.results.ListResults(ctx)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("load results: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, domain.LeaderboardEntry{Team: r.Team, Score: r.Score, CompletedAt: r.CompletedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CompletedAt.Before(entries[j].CompletedAt)
	})

	return domain.Leaderboard{Entries: entries, UpdatedAt: s.now()}, nil
}

// SubscribeLeaderboard returns a channel that receives standings after each
// submission. The caller must invoke the cancel function to avoid leaks.
func (s *ChallengeService) SubscribeLeaderboard() (<-chan domain.Leaderboard, func()) {
	return s.board.Subscribe()
}

func (s *ChallengeService) broadcastLeaderboard(ctx context.Context) {
	lb, err := s.Leaderboard(ctx)
	if err != nil {
		log.Printf("leaderboard refresh failed: %v", err)
		return
	}
	s.board.Broadcast(lb)
}

func (s *ChallengeService) logAttempt(team domain.Team, questionID string, correct bool) {
	attempt := domain.Attempt{
		Team:        team,
		QuestionID:  questionID,
		IsCorrect:   correct,
		AttemptedAt: s.now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.attempts.AppendAttempt(ctx, attempt); err != nil {
			metrics.AttemptLogFailures.Inc()
			log.Printf("attempt log write dropped: %v", err)
			return
		}
		metrics.AttemptsLogged.WithLabelValues(strconv.FormatBool(correct)).Inc()
	}()
}

// startTimer arms the countdown for a team, replacing any previous timer.
// Expiry forces a submission exactly once per timer instance.
func (s *ChallengeService) startTimer(team domain.Team, deadline time.Time) {
	key := team.Key()
	timer := newTimerWithClock(deadline, s.tick, s.now, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Submit(ctx, team, true); err != nil {
			log.Printf("forced submission for team %s failed: %v", key, err)
		}
	})

	s.mu.Lock()
	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}
	s.timers[key] = timer
	s.mu.Unlock()

	timer.Start()
}

func (s *ChallengeService) stopTimer(team domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := team.Key()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

func (s *ChallengeService) findQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("load questions: %w", err)
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func normalizeTeam(team domain.Team) (domain.Team, error) {
	team.Member1 = strings.TrimSpace(team.Member1)
	team.Member2 = strings.TrimSpace(team.Member2)
	if team.Member1 == "" || team.Member2 == "" {
		return domain.Team{}, domain.ErrTeamIncomplete
	}
	return team, nil
}
