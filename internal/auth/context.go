package auth

import "context"

type profileContextKey struct{}

// ContextWithProfile attaches the authenticated profile to the context so
// shells and the audit log can carry the identity across calls.
func ContextWithProfile(ctx context.Context, profile UserProfile) context.Context {
	return context.WithValue(ctx, profileContextKey{}, &profile)
}

// ProfileFromContext extracts the authenticated profile from the context.
func ProfileFromContext(ctx context.Context) (UserProfile, bool) {
	if ctx == nil {
		return UserProfile{}, false
	}
	v, ok := ctx.Value(profileContextKey{}).(*UserProfile)
	if !ok || v == nil {
		return UserProfile{}, false
	}
	return *v, true
}
