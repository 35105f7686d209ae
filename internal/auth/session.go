package auth

import (
	"context"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Session is the signed-in user as resolved at sign-in. The role is never
// re-queried while the session lives.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Session) Authenticated() bool { return s.UserID != "" }

type ctxKey string

const ctxSession ctxKey = "session"

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxSession, s)
}

// FromContext returns the session stored by the authentication middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxSession).(Session)
	if !ok || !s.Authenticated() {
		return Session{}, false
	}
	return s, true
}
