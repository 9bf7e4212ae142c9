// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Roles recognized by the platform.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Actor contains the authenticated identity performing an operation.
// Readings and financial records are attributed to the actor's display name.
type Actor struct {
	ID          string
	DisplayName string
	Role        string
	BranchID    string // home branch for cashiers, empty for admins
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context, or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}

// GetActorName returns the display name used for attribution,
// or "system" when no actor is present (seed scripts, jobs).
func GetActorName(ctx context.Context) string {
	if a := GetActor(ctx); a != nil && a.DisplayName != "" {
		return a.DisplayName
	}
	return "system"
}

// IsAdmin reports whether the context actor has the admin role.
func IsAdmin(ctx context.Context) bool {
	if a := GetActor(ctx); a != nil {
		return a.Role == RoleAdmin
	}
	return false
}
