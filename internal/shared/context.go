package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches the caller's session so downstream tenant
// resolution can read the signed-in user and active company.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the request's session, or nil for anonymous
// requests.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
