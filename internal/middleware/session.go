package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
)

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Session, error)
}

// Authenticate stores the session of a valid bearer token on the request context.
// Requests without a token pass through anonymously; an invalid token is rejected.
// A failing session lookup is a backend error, not a sign-in prompt.
func Authenticate(a Authenticator, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			session, err := a.Authenticate(r.Context(), token)
			if errors.Is(err, auth.ErrUnauthenticated) {
				WriteError(w, r, http.StatusUnauthorized, ErrorResponse{Error: auth.ErrUnauthenticated.Error()})
				return
			}
			if err != nil {
				logger.Printf("session lookup failed method=%s path=%s correlationId=%s err=%v",
					r.Method, r.URL.Path, GetCorrelationID(r.Context()), err)
				WriteError(w, r, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			WriteError(w, r, http.StatusUnauthorized, ErrorResponse{Error: auth.ErrUnauthenticated.Error(), Redirect: "/login"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := auth.FromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusUnauthorized, ErrorResponse{Error: auth.ErrUnauthenticated.Error(), Redirect: "/login"})
			return
		}
		if !s.IsAdmin() {
			WriteError(w, r, http.StatusForbidden, ErrorResponse{Error: "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
