package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
	"github.com/vytor/brainplay/internal/services"
	"github.com/vytor/brainplay/internal/session"
)

type startSessionRequest struct {
	Game       string `json:"game" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard expert"`
}

type answerRequest struct {
	Seq                int      `json:"seq" validate:"gte=0"`
	Values             []string `json:"values"`
	ResponseTimeMillis int64    `json:"response_time_ms" validate:"gte=0"`
	HintUsed           bool     `json:"hint_used"`
}

type hintResponse struct {
	Hint string `json:"hint"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.SessionService.Start(r.Context(), services.StartSessionRequest{
		Kind:       models.GameKind(req.Game),
		ProfileID:  profileID(r.Context()),
		Difficulty: req.Difficulty,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.SessionService.Get)
}

func (s *Server) handleBeginSession(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.SessionService.Begin)
}

func (s *Server) handleStimulusShown(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.SessionService.Shown)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.SessionService.Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.SessionService.Resume)
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.SessionService.Quit)
}

func (s *Server) sessionAction(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (session.Snapshot, error)) {
	snap, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.SessionService.Answer(r.Context(), id, models.Submission{
		Seq:                req.Seq,
		Values:             req.Values,
		ResponseTimeMillis: req.ResponseTimeMillis,
		HintUsed:           req.HintUsed,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if out.Ignored {
		log.Debug("answer ignored: session=%s seq=%d", id, req.Seq)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	hint, err := s.SessionService.Hint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hintResponse{Hint: hint})
}

// handleResult answers 202 while the record is still being stored.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.SessionService.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Pending {
		status = http.StatusAccepted
	}
	writeJSON(w, r, status, res)
}
