package auth

import "context"

// Principal identifies the authenticated caller for the duration of a
// request. Absence from the context means the request is anonymous.
type Principal struct {
	UserID   string
	Username string
}

type contextKey int

const principalKey contextKey = iota

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom extracts the principal from the context.
// Returns nil, false for anonymous requests.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
