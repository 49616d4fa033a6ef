package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/brainplay/internal/metrics"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Get("/{id}", s.handleGetProfile)
			r.Post("/{id}/select", s.handleSelectProfile)
			r.Delete("/{id}", s.handleDeleteProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.profileMiddleware)

			r.Post("/sessions", s.handleStartSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Post("/begin", s.handleBeginSession)
				r.Post("/shown", s.handleStimulusShown)
				r.Post("/answer", s.handleAnswer)
				r.Post("/hint", s.handleHint)
				r.Post("/pause", s.handlePause)
				r.Post("/resume", s.handleResume)
				r.Post("/quit", s.handleQuit)
				r.Get("/result", s.handleResult)
				r.Get("/stream", s.handleStream)
			})

			r.Get("/scores/{kind}", s.handleScores)
			r.Get("/leaderboard/{kind}", s.handleLeaderboard)
			r.Get("/stats", s.handleStatsOverview)
			r.Get("/stats/{kind}", s.handleStats)
		})
	})
	return r
}
