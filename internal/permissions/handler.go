package permissions

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/platform/httpx"
	"github.com/cadence-hr/cadence/internal/tenants"
)

// Handler wires HTTP endpoints for override administration. All routes
// require the settings.manage permission; mutations additionally pass
// the write-guard.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     access.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers override routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequirePermission(access.PermSettings, access.ActionManage))
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", h.list)
		r.With(h.guard.RequireWritable()).Put("/", h.set)
		r.With(h.guard.RequireWritable()).Delete("/", h.remove)
	})
}

type overrideResponse struct {
	UserID    int64             `json:"user_id"`
	Module    access.PermModule `json:"module"`
	Action    access.PermAction `json:"action"`
	Allowed   bool              `json:"allowed"`
	Source    access.Source     `json:"source"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toResponse(o Override) overrideResponse {
	return overrideResponse{
		UserID:    o.UserID,
		Module:    o.Module,
		Action:    o.Action,
		Allowed:   o.Allowed,
		Source:    o.Provenance(),
		UpdatedAt: o.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tc, userID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	records, err := h.service.List(r.Context(), userID, tc.Company.ID)
	if err != nil {
		h.logger.Error("list overrides", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]overrideResponse, 0, len(records))
	for _, o := range records {
		out = append(out, toResponse(o))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"overrides": out})
}

type setOverrideRequest struct {
	Module  string `json:"module" validate:"required"`
	Action  string `json:"action" validate:"required"`
	Allowed *bool  `json:"allowed" validate:"required"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	tc, userID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	var req setOverrideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	saved, err := h.service.Set(r.Context(), Override{
		UserID:    userID,
		CompanyID: tc.Company.ID,
		Module:    access.PermModule(req.Module),
		Action:    access.PermAction(req.Action),
		Allowed:   *req.Allowed,
		CreatedBy: tc.UserID,
	})
	if err != nil {
		h.logger.Error("set override", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(saved))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	tc, userID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	module := access.PermModule(r.URL.Query().Get("module"))
	action := access.PermAction(r.URL.Query().Get("action"))
	if err := h.service.Remove(r.Context(), tc.UserID, userID, tc.Company.ID, module, action); err != nil {
		h.logger.Error("remove override", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (tenants.TenantContext, int64, bool) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return tenants.TenantContext{}, 0, false
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return tenants.TenantContext{}, 0, false
	}
	return tc, userID, true
}
