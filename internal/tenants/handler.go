package tenants

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

// Handler exposes the current tenant context and access explanations.
type Handler struct {
	logger *slog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// MountRoutes registers tenant routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/current", h.current)
	r.Get("/current/access", h.explainAccess)
}

type currentTenantResponse struct {
	CompanyID    int64              `json:"company_id"`
	CompanyName  string             `json:"company_name"`
	Plan         string             `json:"plan"`
	Role         access.Role        `json:"role"`
	State        access.TenantState `json:"state"`
	WriteState   access.WriteState  `json:"write_state"`
	CanWrite     bool               `json:"can_write"`
	WriteMessage string             `json:"write_message,omitempty"`
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	tc, ok := TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return
	}
	writeVerdict := tc.Subject.CheckWrite()
	httpx.JSON(w, http.StatusOK, currentTenantResponse{
		CompanyID:    tc.Company.ID,
		CompanyName:  tc.Company.Name,
		Plan:         tc.Company.Plan,
		Role:         tc.Subject.Role,
		State:        tc.Subject.State,
		WriteState:   tc.Subject.State.WriteState(),
		CanWrite:     writeVerdict.HasAccess,
		WriteMessage: writeVerdict.Message,
	})
}

type accessExplanation struct {
	Granted bool           `json:"granted"`
	Source  access.Source  `json:"source"`
	Verdict access.Verdict `json:"verdict"`
}

// explainAccess resolves one (module, action) pair with provenance, for
// admin surfaces explaining why a permission is granted or denied.
func (h *Handler) explainAccess(w http.ResponseWriter, r *http.Request) {
	tc, ok := TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return
	}
	module := access.PermModule(r.URL.Query().Get("module"))
	action := access.PermAction(r.URL.Query().Get("action"))
	if module == "" || action == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "module and action query params required")
		return
	}
	resolution := tc.Subject.Resolver.Resolve(module, action)
	httpx.JSON(w, http.StatusOK, accessExplanation{
		Granted: resolution.Granted,
		Source:  resolution.Source,
		Verdict: tc.Subject.CheckPermission(module, action),
	})
}
