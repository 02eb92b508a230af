// Package tenant carries the organization key through request contexts.
// Repositories read it to scope every statement.
package tenant

import (
	"context"
	"errors"
)

// ErrMissing is returned when a context carries no organization.
var ErrMissing = errors.New("tenant: organization id is missing in context")

type ctxKey struct{}

// WithOrganization returns a copy of ctx scoped to organizationID.
func WithOrganization(ctx context.Context, organizationID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, organizationID)
}

// FromContext returns the organization id stored in ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Require is FromContext that fails with ErrMissing.
func Require(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrMissing
	}
	return id, nil
}
