package impersonation

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/platform/httpx"
	"github.com/cadence-hr/cadence/internal/tenants"
)

// Handler exposes impersonation controls to platform admins.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   access.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers impersonation routes. Starting and stopping is
// restricted to super admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireRole(access.RoleSuperAdmin))
	r.Route("/companies/{companyID}", func(r chi.Router) {
		r.Post("/start", h.start)
		r.Post("/stop", h.stop)
		r.Get("/status", h.status)
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	tc, companyID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	if err := h.service.Start(r.Context(), tc.UserID, companyID); err != nil {
		h.logger.Error("start impersonation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"impersonating": true, "company_id": companyID})
}

func (h *Handler) stop(w http.ResponseWriter, r *http.Request) {
	tc, companyID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	if err := h.service.Stop(r.Context(), tc.UserID, companyID); err != nil {
		if errors.Is(err, ErrNotImpersonating) {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		h.logger.Error("stop impersonation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"impersonating": false, "company_id": companyID})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	_, companyID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	adminID, active, err := h.service.Admin(r.Context(), companyID)
	if err != nil {
		h.logger.Error("impersonation status", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	resp := map[string]any{"impersonating": active, "company_id": companyID}
	if active {
		resp["admin_id"] = adminID
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (tenants.TenantContext, int64, bool) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return tenants.TenantContext{}, 0, false
	}
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid company id")
		return tenants.TenantContext{}, 0, false
	}
	return tc, companyID, true
}
