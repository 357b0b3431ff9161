package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/factflash/internal/errors"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/services"
)

type attemptRequest struct {
	SessionID *int64 `json:"session_id"`
	FactID    int64  `json:"fact_id"`
	Answer    *int   `json:"answer"`
	LatencyMs int64  `json:"latency_ms"`
	HintUsed  bool   `json:"hint_used"`
}

func (s *Server) handleNextBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("invalid batch size: %s", raw)
			handleError(w, r, errors.NewBadRequestError("size must be an integer"))
			return
		}
		size = n
	}

	batch, err := s.PracticeService.GetNextBatch(r.Context(), userID, size)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, batch)
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req attemptRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Answer == nil {
		handleError(w, r, errors.NewValidationError("answer", "is required"))
		return
	}

	result, err := s.PracticeService.RecordAttempt(r.Context(), services.AttemptInput{
		UserID:    userID,
		SessionID: req.SessionID,
		FactID:    req.FactID,
		Answer:    *req.Answer,
		LatencyMs: req.LatencyMs,
		HintUsed:  req.HintUsed,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleMastery(w http.ResponseWriter, r *http.Request) {
	stats, err := s.PracticeService.MasteryStats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
