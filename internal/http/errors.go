package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/club"
)

// errBadRequest marks malformed input that never reached the store.
var errBadRequest = errors.New("bad request")

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, club.ErrInvalidName),
		errors.Is(err, club.ErrInvalidParticipants),
		errors.Is(err, club.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, club.ErrDuplicateName),
		errors.Is(err, club.ErrRestoreNotEmpty):
		return http.StatusConflict
	case errors.Is(err, club.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, club.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON for API routes and as plain text otherwise.
// Server-side failures are logged and replaced by a generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		s.Metrics.IncStoreErrors()
		log.Error("Storage unavailable", "error", err, "path", r.URL.Path, "requestID", requestIDFromContext(r))
		msg = "Storage is unavailable, please try again later"
	case http.StatusInternalServerError:
		log.Error("Request failed", "error", err, "path", r.URL.Path, "requestID", requestIDFromContext(r))
		msg = "Internal Server Error"
	default:
		log.Warn("Rejected request", "error", err, "status", status, "path", r.URL.Path)
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondJSON(w, status, errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, status)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}
