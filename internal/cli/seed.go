package cli

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"debug-challenge-service/internal/config"
	"debug-challenge-service/internal/domain"
	infrapg "debug-challenge-service/internal/infra/postgres"
)

// NewSeedCmd loads the initial question set and default settings into
// Postgres when the tables are empty. Safe to run repeatedly.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed initial questions and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	questions := infrapg.NewQuestionRepository(pool)
	existing, err := questions.ListQuestions(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		log.Println("no questions found, seeding initial set...")
		for _, q := range seedQuestions() {
			if err := questions.CreateQuestion(ctx, q); err != nil {
				return err
			}
		}
	}

	var hasSettings bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM settings WHERE id='global')`).Scan(&hasSettings); err != nil {
		return err
	}
	if !hasSettings {
		log.Println("no settings found, seeding defaults...")
		if err := infrapg.NewSettingsStore(pool).UpdateSettings(ctx, domain.DefaultSettings()); err != nil {
			return err
		}
	}

	log.Println("seed complete")
	return nil
}

// seedQuestions is the starter exercise set; also used as the in-memory
// question source when no database is configured.
func seedQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:          uuid.NewString(),
			Description: "This function should return the sum of two numbers, but it's concatenating them as strings. Find and fix the bug.",
			BuggyCode:   "def add_numbers(a, b):\n  return a + b\n\nresult = add_numbers(\"5\", \"10\")\nprint(result)",
			FixedCodeSolutions: []string{
				"def add_numbers(a, b):\n  return int(a) + int(b)\n\nresult = add_numbers(\"5\", \"10\")\nprint(result)",
				"def add_numbers(a, b):\n  a = int(a)\n  b = int(b)\n  return a + b\n\nresult = add_numbers(\"5\", \"10\")\nprint(result)",
			},
			ExpectedOutput: "15",
			OriginalError:  "TypeError: can only concatenate str (not \"int\") to str",
			Order:          1,
		},
		{
			ID:          uuid.NewString(),
			Description: "The loop should print numbers from 0 to 4, but it's not working as expected. Fix the range.",
			BuggyCode:   "for i in range(\"5\"):\n  print(i)",
			FixedCodeSolutions: []string{
				"for i in range(5):\n  print(i)",
			},
			ExpectedOutput: "0\n1\n2\n3\n4",
			OriginalError:  "TypeError: 'str' object cannot be interpreted as an integer",
			Order:          2,
		},
		{
			ID:          uuid.NewString(),
			Description: "This code tries to access an item from a dictionary, but it's using the wrong syntax. Fix the key access.",
			BuggyCode:   "user = {\n  \"name\": \"Alice\",\n  \"age\": 30\n}\nprint(user.age)",
			FixedCodeSolutions: []string{
				"user = {\n  \"name\": \"Alice\",\n  \"age\": 30\n}\nprint(user[\"age\"])",
			},
			ExpectedOutput: "30",
			OriginalError:  "AttributeError: 'dict' object has no attribute 'age'",
			Order:          3,
		},
	}
}
