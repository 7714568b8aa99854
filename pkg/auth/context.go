package auth

import (
	"context"

	apperrors "sweeply/pkg/errors"
)

// Roles recognized by the platform.
const (
	RoleCustomer = "customer"
	RoleCleaner  = "cleaner"
	RoleAdmin    = "admin"
)

// Caller identifies the authenticated principal for a request. Services
// receive it explicitly; there is no ambient identity.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) IsCustomer() bool { return c.Role == RoleCustomer }
func (c Caller) IsCleaner() bool  { return c.Role == RoleCleaner }
func (c Caller) IsAdmin() bool    { return c.Role == RoleAdmin }

type contextKey struct{}

// WithCaller stores the caller on the request context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext retrieves the caller set by the auth middleware.
func CallerFromContext(ctx context.Context) (Caller, error) {
	caller, ok := ctx.Value(contextKey{}).(Caller)
	if !ok || caller.ID == "" {
		return Caller{}, apperrors.Unauthorized("missing caller identity")
	}
	return caller, nil
}
