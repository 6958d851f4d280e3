package middleware

import (
	"context"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextKey is a private type for request-scoped values.
type ContextKey string

const (
	// PrincipalCtxKey holds the authenticated *Principal.
	PrincipalCtxKey = ContextKey("principal")
	// RequestIDCtxKey holds the request id assigned by RequestID.
	RequestIDCtxKey = ContextKey("request_id")
)

// Principal is the caller resolved from a session token.
type Principal struct {
	ID   primitive.ObjectID
	Role domain.Role
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalCtxKey, p)
}

// PrincipalFromContext returns the principal set by Authenticate.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(*Principal)
	return p, ok && p != nil
}

// RequestIDFromContext returns the id set by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDCtxKey).(string)
	return id
}
