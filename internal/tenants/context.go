package tenants

import "context"

type tenantContextKey struct{}

// ContextWithTenant stores the resolved tenant context.
func ContextWithTenant(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tc)
}

// TenantFromContext extracts the tenant context placed by the middleware.
func TenantFromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey{}).(TenantContext)
	return tc, ok
}
