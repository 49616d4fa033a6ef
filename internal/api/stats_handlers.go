package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
)

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func kindParam(r *http.Request) models.GameKind {
	return models.GameKind(chi.URLParam(r, "kind"))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	kind := kindParam(r)
	log.Debug("fetching recent scores: game=%s", kind)

	records, err := s.StatsService.Recent(r.Context(), profileID(r.Context()), kind, queryLimit(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.StatsService.Leaderboard(r.Context(), kindParam(r), queryLimit(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.Overview(r.Context(), profileID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.History(r.Context(), profileID(r.Context()), kindParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
