package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/conlangforge/conlangforge/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAuth rejects requests without a valid access token.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(r.Context(), w, common.ErrorUnauthorized)
			return
		}
		userID, err := s.users.UserIDFromToken(token)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the user identity when a valid token is present and
// lets the request proceed anonymously otherwise. An invalid token is still
// an error: silently downgrading it would make a typo look like a 403.
func (s *HTTPServer) optionalAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}
		userID, err := s.users.UserIDFromToken(token)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	})
}

func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
