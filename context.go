package nunu

import "context"

type originContextKey struct{}

// WithOrigin attaches the originating screen name ("login", "register",
// "boot", ...) to ctx. Audit events record it so a transition can be traced
// back to the surface that triggered it.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originContextKey{}, origin)
}

func originFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	origin, _ := ctx.Value(originContextKey{}).(string)
	return origin
}
