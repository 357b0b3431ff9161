package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/models"
)

type startSessionRequest struct {
	Mode models.SessionMode `json:"mode"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	session, err := s.SessionService.Start(r.Context(), chi.URLParam(r, "userID"), req.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("session started: id=%d, mode=%s", session.ID, session.Mode)
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.SessionService.End(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	summary, err := s.SessionService.Summary(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}
