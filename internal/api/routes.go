package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// newRouter installs the middleware shared by every route. Recovery runs
// inside logging so a recovered panic is logged with the request's fields.
func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	return r
}

func (s *Server) Routes() http.Handler {
	r := newRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Get("/users/{userID}/batch", s.handleNextBatch)
		r.Post("/users/{userID}/attempts", s.handleRecordAttempt)
		r.Post("/users/{userID}/sessions", s.handleStartSession)
		r.Get("/users/{userID}/mastery", s.handleMastery)

		r.Get("/sessions/{sessionID}", s.handleSessionSummary)
		r.Post("/sessions/{sessionID}/end", s.handleEndSession)

		r.Get("/hint", s.handleHint)
		r.Get("/word-problem", s.handleWordProblem)
	})
	return r
}
