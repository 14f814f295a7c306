package domain

import "errors"

var (
	// ErrTeamIncomplete is returned when either member name is missing.
	ErrTeamIncomplete = errors.New("both team member names are required")
	// ErrTeamAlreadyCompleted is returned when a team with a stored result tries to start again.
	ErrTeamAlreadyCompleted = errors.New("team already completed the challenge")
	// ErrQuestionNotFound indicates a referenced question ID does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoProgress is returned when an operation needs an in-flight challenge and none exists.
	ErrNoProgress = errors.New("no challenge in progress for team")
	// ErrNoQuestions indicates the question set is empty so a challenge cannot start.
	ErrNoQuestions = errors.New("no questions configured")
	// ErrInvalidQuestion is returned for malformed question payloads.
	ErrInvalidQuestion = errors.New("question needs a description, buggy code, and at least one solution")
	// ErrInvalidSettings is returned when the timer is enabled without a positive duration.
	ErrInvalidSettings = errors.New("timer duration must be positive when the timer is enabled")
)
