package session

import (
	"context"
	"errors"
)

// ErrMissingSession is returned when no session is attached to a context
var ErrMissingSession = errors.New("no game session in context")

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session carried by ctx
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrMissingSession
	}
	return s, nil
}

// MustFromContext is like FromContext but panics when no session is present.
// Use it only during initialization, where a missing session is a wiring bug.
func MustFromContext(ctx context.Context) *Session {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
