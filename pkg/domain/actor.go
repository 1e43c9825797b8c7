package domain

import "context"

type actorContextKey struct{}

// ContextWithActor attaches the authenticated user performing an operation.
func ContextWithActor(ctx context.Context, actor User) context.Context {
	return context.WithValue(ctx, actorContextKey{}, &actor)
}

// ActorFromContext extracts the authenticated user from the context.
func ActorFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	v, ok := ctx.Value(actorContextKey{}).(*User)
	if !ok || v == nil {
		return User{}, false
	}
	return *v, true
}
