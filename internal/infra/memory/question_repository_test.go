package memory

import (
	"context"
	"errors"
	"testing"

	"debug-challenge-service/internal/domain"
)

func TestQuestionRepositoryCRUDAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionRepository([]domain.Question{
		{ID: "b", Description: "second", BuggyCode: "x", FixedCodeSolutions: []string{"y"}, Order: 2},
		{ID: "a", Description: "first", BuggyCode: "x", FixedCodeSolutions: []string{"y"}, Order: 1},
	})

	list, err := repo.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("expected order-sorted list, got %+v", list)
	}

	if err := repo.CreateQuestion(ctx, domain.Question{ID: "c", Description: "third", BuggyCode: "x", FixedCodeSolutions: []string{"y"}, Order: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := list[0]
	updated.Description = "first, edited"
	if err := repo.UpdateQuestion(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := repo.UpdateQuestion(ctx, domain.Question{ID: "missing"}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	if err := repo.DeleteQuestion(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteQuestion(ctx, "b"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound on double delete, got %v", err)
	}

	list, _ = repo.ListQuestions(ctx)
	if len(list) != 2 || list[0].Description != "first, edited" {
		t.Fatalf("unexpected final state: %+v", list)
	}
}
