package app

import (
	"context"
	"fmt"
	"math"
	"sort"

	"debug-challenge-service/internal/domain"
)

// ComputeAnalytics derives the admin summary from the attempt log and the
// result records. Nothing is cached; volumes are bounded by teams times
// questions, so a full recompute per call is fine.
func (s *ChallengeService) ComputeAnalytics(ctx context.Context) (domain.Analytics, error) {
	results, err := s.results.ListResults(ctx)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("load results: %w", err)
	}
	attempts, err := s.attempts.ListAttempts(ctx)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("load attempts: %w", err)
	}
	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("load questions: %w", err)
	}

	analytics := domain.Analytics{FinishedTeamsCount: len(results)}
	if len(results) > 0 {
		total := 0
		for _, r := range results {
			total += r.Score
		}
		avg := float64(total) / float64(len(results))
		analytics.AverageScore = math.Round(avg*100) / 100
	}

	// Started teams are counted by full team identity, not by a single
	// member name, so two teams sharing one member stay distinct.
	started := make(map[string]struct{})
	type tally struct {
		total   int
		correct int
	}
	tallies := make(map[string]*tally)
	for _, a := range attempts {
		started[a.Team.Key()] = struct{}{}
		tl := tallies[a.QuestionID]
		if tl == nil {
			tl = &tally{}
			tallies[a.QuestionID] = tl
		}
		tl.total++
		if a.IsCorrect {
			tl.correct++
		}
	}
	analytics.StartedTeamsCount = len(started)

	ordered := make([]domain.Question, len(questions))
	copy(ordered, questions)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].ID < ordered[j].ID
	})

	// Attempts against questions that no longer exist are dropped.
	for _, q := range ordered {
		tl, ok := tallies[q.ID]
		if !ok {
			continue
		}
		analytics.QuestionStats = append(analytics.QuestionStats, domain.QuestionStat{
			QuestionID:    q.ID,
			Description:   q.Description,
			TotalAttempts: tl.total,
			SuccessRate:   float64(tl.correct) / float64(tl.total),
		})
	}

	return analytics, nil
}
