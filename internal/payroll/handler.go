package payroll

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

// Handler wires HTTP endpoints for payroll runs. Processing and locking
// carry their own permissions on top of the write-guard.
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

// MountRoutes registers payroll routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireModule(access.ModulePayroll))
	r.With(h.guard.RequirePermission(access.PermPayroll, access.ActionRead)).Get("/runs", h.list)
	r.With(h.guard.RequirePermission(access.PermPayroll, access.ActionRead)).Get("/runs/{runID}", h.get)
	r.With(h.guard.RequirePermission(access.PermPayroll, access.ActionCreate), h.guard.RequireWritable()).Post("/runs", h.create)
	r.With(h.guard.RequirePermission(access.PermPayroll, access.ActionProcess), h.guard.RequireWritable()).Post("/runs/{runID}/process", h.process)
	r.With(h.guard.RequirePermission(access.PermPayroll, access.ActionLock), h.guard.RequireWritable()).Post("/runs/{runID}/lock", h.lock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	result, err := h.service.List(r.Context(), ListFilter{
		CompanyID: tc.Company.ID,
		Status:    RunStatus(q.Get("status")),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		h.logger.Error("list payroll runs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tc, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	run, err := h.service.Get(r.Context(), tc.Company.ID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, run)
}

type createRunRequest struct {
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return
	}
	var req createRunRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	run, err := h.service.CreateDraft(r.Context(), CreateInput{
		CompanyID:   tc.Company.ID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		CreatedBy:   tc.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, run)
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	tc, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	run, err := h.service.Process(r.Context(), tc.Company.ID, id, tc.UserID)
	if err != nil {
		h.logger.Error("process payroll run", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, run)
}

func (h *Handler) lock(w http.ResponseWriter, r *http.Request) {
	tc, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	run, err := h.service.Lock(r.Context(), tc.Company.ID, id, tc.UserID)
	if err != nil {
		h.logger.Error("lock payroll run", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, run)
}

func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (tenants.TenantContext, int64, bool) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return tenants.TenantContext{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "runID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid run id")
		return tenants.TenantContext{}, 0, false
	}
	return tc, id, true
}
