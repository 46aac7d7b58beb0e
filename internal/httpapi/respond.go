package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
)

// queryError is a malformed query parameter.
type queryError struct {
	param string
	msg   string
}

func (e *queryError) Error() string { return "invalid " + e.param + ": " + e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

// errorStatus maps engine errors to a status code and a stable kind.
func errorStatus(err error) (int, string) {
	var (
		ire *analysis.InvalidRangeError
		ere *analysis.EmptyResultError
		mce *analysis.MissingColumnError
		qe  *queryError
	)
	switch {
	case errors.As(err, &ire):
		return http.StatusBadRequest, "invalid_range"
	case errors.As(err, &qe):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &ere):
		return http.StatusNotFound, "empty_result"
	case errors.As(err, &mce):
		return http.StatusUnprocessableEntity, "missing_column"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := errorStatus(err)
	log := s.log.With("request_id", w.Header().Get(requestIDHeader), "path", r.URL.Path, "kind", kind, "error", err)
	if status >= 500 {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}
