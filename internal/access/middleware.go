package access

import (
	"log/slog"
	"net/http"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

// DenialRecorder receives denial reasons for observability counters.
type DenialRecorder interface {
	RecordDenial(reason string)
}

// Middleware builds chi-compatible guards around the decision engine.
// Each guard reads the subject from the request context; requests without
// one are denied outright.
type Middleware struct {
	Logger  *slog.Logger
	Denials DenialRecorder
}

// Require wraps a handler with an arbitrary CheckOptions gate.
func (m Middleware) Require(opts CheckOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, ok := SubjectFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "no tenant context")
				return
			}
			verdict := sub.Check(opts)
			if !verdict.HasAccess {
				if m.Logger != nil {
					m.Logger.Warn("access denied",
						slog.String("path", r.URL.Path),
						slog.String("reason", string(verdict.Reason)),
					)
				}
				if m.Denials != nil {
					m.Denials.RecordDenial(string(verdict.Reason))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", verdict.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates on a minimum role.
func (m Middleware) RequireRole(required Role) func(http.Handler) http.Handler {
	return m.Require(CheckOptions{RequiredRole: required})
}

// RequireModule gates on plan access to a module.
func (m Middleware) RequireModule(id ModuleID) func(http.Handler) http.Handler {
	return m.Require(CheckOptions{RequiredModule: id})
}

// RequirePermission gates on a fine-grained permission.
func (m Middleware) RequirePermission(module PermModule, action PermAction) func(http.Handler) http.Handler {
	return m.Require(CheckOptions{Permission: &Permission{Module: module, Action: action}})
}

// RequireWritable applies the write-guard. Mutation routes stack this
// with their specific permission gate; both must pass.
func (m Middleware) RequireWritable() func(http.Handler) http.Handler {
	return m.Require(CheckOptions{WritesOnly: true})
}
