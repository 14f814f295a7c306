package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"debug-challenge-service/internal/app"
	"debug-challenge-service/internal/config"
	"debug-challenge-service/internal/infra/memory"
	infrapg "debug-challenge-service/internal/infra/postgres"
	infraredis "debug-challenge-service/internal/infra/redis"
	transport "debug-challenge-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the challenge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Without Postgres the service runs fully in memory with the seed
	// question set; without Redis, progress lives in process memory only.
	var (
		questions app.QuestionRepository
		settings  app.SettingsStore
		results   app.ResultRepository
		attempts  app.AttemptLog
		progress  app.ProgressStore
	)
	if pool != nil {
		questions = infrapg.NewQuestionRepository(pool)
		settings = infrapg.NewSettingsStore(pool)
		results = infrapg.NewResultRepository(pool)
		attempts = infrapg.NewAttemptLog(pool)
	} else {
		questions = memory.NewQuestionRepository(seedQuestions())
		settings = memory.NewSettingsStore()
		results = memory.NewResultRepository()
		attempts = memory.NewAttemptLog()
	}

	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Questions.CacheTTL, 10*time.Minute)
		questions = infraredis.NewQuestionRepository(redisClient, questions, cacheTTL)
		progressTTL := config.TTLDuration(cfg.Progress.TTL, 24*time.Hour)
		progress = infraredis.NewProgressStore(redisClient, progressTTL)
	} else {
		progress = memory.NewProgressStore()
	}

	service := app.NewChallengeService(questions, settings, results, attempts, progress)
	apiHandler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeLeaderboard)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting challenge service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
