// Package session carries the signed-in user through a request's context.
package session

import (
	"context"

	"rentals-dashboard/app/models"
)

// Session is the request-scoped identity resolved from the session cookie.
type Session struct {
	ID        string
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      models.Role
	// Token is the bearer token issued by the backend at login.
	Token string
}

func (s *Session) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	return s.FirstName + " " + s.LastName
}

type ctxKey struct{}

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// TokenFromContext returns the backend bearer token for ctx, or "".
func TokenFromContext(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}
