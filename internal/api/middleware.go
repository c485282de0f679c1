package api

import (
	"net/http"
	"strings"

	"github.com/shelfgraph/shelfgraph-server/internal/auth"
)

// resolvePrincipal verifies an optional bearer token and attaches the
// resulting principal to the request context. Authorization is decided
// per field by the resolvers, so a missing or invalid token never fails
// the request here; the caller simply stays anonymous.
func (s *Server) resolvePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.Verify(tokenString)
		if err != nil {
			s.logger.Debug("rejected bearer token", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), &auth.Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
