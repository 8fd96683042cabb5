// Package obscontext carries request-scoped correlation identifiers.
package obscontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	companyIDKey contextKey = "company_id"
	actorKey     contextKey = "actor"
)

type actor struct {
	Role string
	ID   string
}

// WithRequestID attaches a request identifier to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request identifier, if any.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithCompanyID attaches the tenant company identifier to the context.
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

// CompanyIDFromContext returns the tenant company identifier, if any.
func CompanyIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(companyIDKey).(string); ok {
		return v
	}
	return ""
}

// WithActor attaches the authenticated actor's role and id to the context.
func WithActor(ctx context.Context, role, id string) context.Context {
	return context.WithValue(ctx, actorKey, actor{Role: role, ID: id})
}

// ActorFromContext returns the authenticated actor's role and id, if any.
func ActorFromContext(ctx context.Context) (role, id string) {
	if v, ok := ctx.Value(actorKey).(actor); ok {
		return v.Role, v.ID
	}
	return "", ""
}
