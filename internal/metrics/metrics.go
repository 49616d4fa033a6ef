// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainplay_sessions_started_total",
		Help: "Sessions created, by game.",
	}, []string{"game"})

	SessionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainplay_sessions_finished_total",
		Help: "Sessions finished, by game and finish reason.",
	}, []string{"game", "reason"})

	SessionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brainplay_sessions_live",
		Help: "Sessions currently held in memory.",
	})

	Answers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainplay_answers_total",
		Help: "Evaluated answers, by game and correctness.",
	}, []string{"game", "correct"})

	FeedbackResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainplay_feedback_total",
		Help: "Feedback texts produced, by source.",
	}, []string{"source"})

	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brainplay_persistence_failures_total",
		Help: "Session records that could not be saved.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
