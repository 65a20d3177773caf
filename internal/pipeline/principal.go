package pipeline

import "context"

// Principal is the authenticated caller.
type Principal struct {
	UserID      string
	Permissions []string
}

func (p Principal) Has(permission string) bool {
	for _, granted := range p.Permissions {
		if granted == permission || granted == "*" {
			return true
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
