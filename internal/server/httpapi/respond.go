package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akarpovs/filedepot/internal/common"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the error taxonomy onto status codes. Storage causes are
// logged but never leak to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		s.log.Error(r.Context(), "unclassified error", "err", err)
		s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(appErr, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(appErr, common.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(appErr, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(appErr, common.ErrStorage):
		s.log.Error(r.Context(), "storage failure", "reason", appErr.Reason, "err", err)
	}

	s.respondJSON(w, status, errorBody{Error: appErr.Message, Code: appErr.Reason})
}
