package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/conlangforge/conlangforge/internal/common"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encoding response", "error", err)
	}
}

// writeError translates domain errors into HTTP status codes. Anything not
// in the table is a 500 with a generic body; the detail goes to the log only.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		s.writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, common.ErrorConflict):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict"})
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody parses a JSON request body into dst. On failure it writes a 400
// itself and returns false so the handler can just return.
func (s *HTTPServer) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
