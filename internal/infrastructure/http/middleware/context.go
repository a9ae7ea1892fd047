package middleware

import "context"

type contextKey string

const emailContextKey contextKey = "email"

// WithEmail injects the authenticated subject email into the context.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}

// EmailFromContext returns the authenticated subject email, or empty.
func EmailFromContext(ctx context.Context) string {
	v := ctx.Value(emailContextKey)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
