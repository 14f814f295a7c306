package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsLogged counts run/check actions by correctness.
	AttemptsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_attempts_logged_total",
			Help: "Total number of run/check attempts logged",
		},
		[]string{"correct"},
	)

	// AttemptLogFailures counts attempt appends that were dropped. Attempt
	// logging is best-effort, so failures only surface here and in logs.
	AttemptLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "challenge_attempt_log_failures_total",
			Help: "Total number of attempt log writes that failed",
		},
	)

	// Submissions counts final submissions by trigger.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_submissions_total",
			Help: "Total number of final submissions",
		},
		[]string{"forced"},
	)

	// ChallengesStarted counts successful challenge starts.
	ChallengesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "challenge_starts_total",
			Help: "Total number of challenges started",
		},
	)
)
