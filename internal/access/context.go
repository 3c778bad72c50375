package access

import "context"

type subjectContextKey struct{}

// ContextWithSubject stores the resolved subject in the request context.
func ContextWithSubject(ctx context.Context, sub Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, sub)
}

// SubjectFromContext extracts the subject placed by the tenant middleware.
// Callers must treat a missing subject as deny by default.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	sub, ok := ctx.Value(subjectContextKey{}).(Subject)
	return sub, ok
}
