package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"debug-challenge-service/internal/domain"
)

// Admin operations: question management and timer settings. The question set
// is expected to be stable while an event runs; nothing here enforces that.

func (s *ChallengeService) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.ListQuestions(ctx)
}

// CreateQuestion validates and stores a new question, assigning an ID when
// the caller did not supply one.
func (s *ChallengeService) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if err := validateQuestion(q); err != nil {
		return domain.Question{}, err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *ChallengeService) UpdateQuestion(ctx context.Context, q domain.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	return s.questions.UpdateQuestion(ctx, q)
}

func (s *ChallengeService) DeleteQuestion(ctx context.Context, id string) error {
	return s.questions.DeleteQuestion(ctx, id)
}

func (s *ChallengeService) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.settings.GetSettings(ctx)
}

func (s *ChallengeService) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if settings.TimerEnabled && settings.TimerDurationMinutes <= 0 {
		return domain.ErrInvalidSettings
	}
	return s.settings.UpdateSettings(ctx, settings)
}

func validateQuestion(q domain.Question) error {
	if strings.TrimSpace(q.Description) == "" || strings.TrimSpace(q.BuggyCode) == "" || len(q.FixedCodeSolutions) == 0 {
		return domain.ErrInvalidQuestion
	}
	return nil
}
