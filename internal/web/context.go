package web

import (
	"context"

	"github.com/datalens-ai/datalens/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

func withSessionCtx(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}
