package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

type subjectContextKey struct{}

// ContextWithSubject stores the resolved authorization subject so
// handlers behind a guard can read it without re-resolving. The value
// is opaque here to keep this package free of an authz dependency.
func ContextWithSubject(ctx context.Context, subject any) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext extracts the resolved subject, or nil.
func SubjectFromContext(ctx context.Context) any {
	return ctx.Value(subjectContextKey{})
}
