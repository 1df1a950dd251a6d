package profile

import "context"

type ctxKey int

const identityCtxKey ctxKey = 1

// NewContext returns a context carrying the authenticated identity ID.
// Server middleware sets it; resolvers read it back as the current session.
func NewContext(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, identityCtxKey, identityID)
}

// IdentityFromContext reports the authenticated identity ID, if any.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityCtxKey).(string)
	return id, ok && id != ""
}
