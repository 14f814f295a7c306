package domain

import "time"

// Team identifies one challenge attempt by an unordered pair of member names.
// {m1, m2} and {m2, m1} are the same team.
type Team struct {
	Member1 string `json:"member1"`
	Member2 string `json:"member2"`
}

// Key returns a canonical identity string for the team. Both member orders
// map to the same key, so it is safe to use as a storage key.
func (t Team) Key() string {
	a, b := t.Member1, t.Member2
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Matches reports whether (m1, m2) names this team in either order.
// Comparison is case-sensitive on the stored names as given.
func (t Team) Matches(m1, m2 string) bool {
	return (t.Member1 == m1 && t.Member2 == m2) || (t.Member1 == m2 && t.Member2 == m1)
}

// Question is one buggy-code exercise with its accepted fixes.
type Question struct {
	ID                 string   `json:"id"`
	Description        string   `json:"description"`
	BuggyCode          string   `json:"buggyCode"`
	FixedCodeSolutions []string `json:"fixedCodeSolutions"`
	ExpectedOutput     string   `json:"expectedOutput"`
	OriginalError      string   `json:"originalError"`
	Order              int      `json:"order"`
}

// Settings is the singleton timer configuration, read once per challenge start.
type Settings struct {
	TimerEnabled         bool `json:"timerEnabled"`
	TimerDurationMinutes int  `json:"timerDurationMinutes"`
}

// DefaultSettings matches the seeded configuration: timer off, 30 minutes.
func DefaultSettings() Settings {
	return Settings{TimerEnabled: false, TimerDurationMinutes: 30}
}

// Progress is the in-flight state of one team's challenge run. Answers maps
// question ID to the team's current code for that question.
type Progress struct {
	Team                 Team              `json:"team"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
	Answers              map[string]string `json:"answers"`
	Deadline             *time.Time        `json:"deadline,omitempty"`
}

// Attempt is one logged run/check action. Append-only; consumed only by
// analytics, never tied to the final submission.
type Attempt struct {
	Team        Team      `json:"team"`
	QuestionID  string    `json:"questionId"`
	IsCorrect   bool      `json:"isCorrect"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// Result is the final scored outcome of a completed challenge. At most one
// per unordered team pair, enforced by an advisory pre-check only.
type Result struct {
	Team        Team      `json:"team"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// CheckResult is the outcome of a single run/check action on one question.
type CheckResult struct {
	QuestionID     string `json:"questionId"`
	Correct        bool   `json:"correct"`
	ExpectedOutput string `json:"expectedOutput"`
	OriginalError  string `json:"originalError"`
}

// QuestionStat summarizes logged attempts against a single question.
type QuestionStat struct {
	QuestionID    string  `json:"questionId"`
	Description   string  `json:"description"`
	TotalAttempts int     `json:"totalAttempts"`
	SuccessRate   float64 `json:"successRate"`
}

// Analytics is the admin dashboard aggregate, recomputed fully on each call.
type Analytics struct {
	StartedTeamsCount  int            `json:"startedTeamsCount"`
	FinishedTeamsCount int            `json:"finishedTeamsCount"`
	AverageScore       float64        `json:"averageScore"`
	QuestionStats      []QuestionStat `json:"questionStats"`
}

// LeaderboardEntry is a snapshot-friendly view of one finished team.
type LeaderboardEntry struct {
	Team        Team      `json:"team"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// Leaderboard captures the ordered final standings: score descending,
// earlier completion first on ties.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
