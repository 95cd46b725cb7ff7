package auth

import (
	"context"

	"github.com/dukerupert/repapp/internal/model"
)

type contextKey struct{}

// Session is a snapshot of the persisted client session.
type Session struct {
	Token  string
	User   model.User
	RepID  int64
	HasRep bool
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.User.ID != 0
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

func RepID(ctx context.Context) int64 {
	s, ok := FromContext(ctx)
	if !ok || !s.HasRep {
		return 0
	}
	return s.RepID
}

func UserID(ctx context.Context) int64 {
	s, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return s.User.ID
}
