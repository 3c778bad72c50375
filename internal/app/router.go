package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cadence-hr/cadence/internal/auth"
	"github.com/cadence-hr/cadence/internal/employees"
	"github.com/cadence-hr/cadence/internal/impersonation"
	"github.com/cadence-hr/cadence/internal/leave"
	"github.com/cadence-hr/cadence/internal/observability"
	"github.com/cadence-hr/cadence/internal/payroll"
	"github.com/cadence-hr/cadence/internal/permissions"
	"github.com/cadence-hr/cadence/internal/shared"
	"github.com/cadence-hr/cadence/internal/tenants"
	"github.com/cadence-hr/cadence/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	TenantMiddleware tenants.Middleware

	AuthHandler          *auth.Handler
	TenantsHandler       *tenants.Handler
	PermissionsHandler   *permissions.Handler
	ImpersonationHandler *impersonation.Handler
	EmployeesHandler     *employees.Handler
	LeaveHandler         *leave.Handler
	PayrollHandler       *payroll.Handler
	JobHandler           *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Cadence defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below runs with the tenant context resolved; routes deny
	// by default when no subject could be built.
	r.Group(func(r chi.Router) {
		r.Use(params.TenantMiddleware.ResolveSubject)

		if params.TenantsHandler != nil {
			r.Route("/tenants", params.TenantsHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
		if params.ImpersonationHandler != nil {
			r.Route("/admin/impersonation", params.ImpersonationHandler.MountRoutes)
		}
		if params.EmployeesHandler != nil {
			r.Route("/employees", params.EmployeesHandler.MountRoutes)
		}
		if params.LeaveHandler != nil {
			r.Route("/leave", params.LeaveHandler.MountRoutes)
		}
		if params.PayrollHandler != nil {
			r.Route("/payroll", params.PayrollHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
