package api

import "net/http"

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	a, err := operandQuery(r, "a")
	if err != nil {
		handleError(w, r, err)
		return
	}
	b, err := operandQuery(r, "b")
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"hint": s.ContentService.Hint(r.Context(), a, b)})
}

func (s *Server) handleWordProblem(w http.ResponseWriter, r *http.Request) {
	a, err := operandQuery(r, "a")
	if err != nil {
		handleError(w, r, err)
		return
	}
	b, err := operandQuery(r, "b")
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.ContentService.WordProblem(r.Context(), a, b, r.URL.Query().Get("theme")))
}
