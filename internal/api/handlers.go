package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/factflash/internal/errors"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/metrics"
	"github.com/vytor/factflash/internal/services"
)

// HealthChecker reports whether a dependency can serve traffic.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

type Server struct {
	DB              HealthChecker
	PracticeService services.PracticeService
	SessionService  services.SessionService
	ContentService  services.ContentService
	Metrics         *metrics.Metrics
	RequestTimeout  time.Duration
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid " + name + ": " + raw)
	}
	return id, nil
}

// operandQuery parses a numeric query value. Range clamping happens in the
// content service.
func operandQuery(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.NewBadRequestError(name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewBadRequestError(name + " must be a number")
	}
	return v, nil
}
