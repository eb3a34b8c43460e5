package httpapi

import (
	"context"
	"net/http"

	"github.com/akarpovs/filedepot/internal/common"
)

type ctxKey int

const callerIDKey ctxKey = iota

// CallerID returns the authenticated user id from the request context, or ""
// for anonymous callers.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey).(string)
	return id
}

// requireToken rejects requests whose token header is missing or does not
// resolve to a live session.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.users.ResolveToken(r.Header.Get(TokenHeader))
		if !ok {
			s.respondError(w, r, common.NewAuth())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerIDKey, userID)))
	})
}

// maybeToken resolves the token when present but never rejects: an
// unresolvable token just leaves the caller anonymous. The route policy then
// decides on ownership and visibility.
func (s *Server) maybeToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := s.users.ResolveToken(r.Header.Get(TokenHeader)); ok {
			r = r.WithContext(context.WithValue(r.Context(), callerIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}
