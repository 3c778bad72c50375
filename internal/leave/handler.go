package leave

import (
	"context"
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

// Handler wires HTTP endpoints for leave requests. Approvals are gated on
// the leave.approve permission so managers with a revoked override cannot
// decide requests even though their role default would allow it.
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

// MountRoutes registers leave routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireModule(access.ModuleLeave))
	r.With(h.guard.RequirePermission(access.PermLeave, access.ActionRead)).Get("/", h.list)
	r.With(h.guard.RequirePermission(access.PermLeave, access.ActionRead)).Get("/{requestID}", h.get)
	r.With(h.guard.RequirePermission(access.PermLeave, access.ActionCreate), h.guard.RequireWritable()).Post("/", h.submit)
	r.With(h.guard.RequirePermission(access.PermLeave, access.ActionApprove), h.guard.RequireWritable()).Post("/{requestID}/approve", h.approve)
	r.With(h.guard.RequirePermission(access.PermLeave, access.ActionApprove), h.guard.RequireWritable()).Post("/{requestID}/reject", h.reject)
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
	employeeID, _ := strconv.ParseInt(q.Get("employee_id"), 10, 64)
	result, err := h.service.List(r.Context(), ListFilter{
		CompanyID:  tc.Company.ID,
		EmployeeID: employeeID,
		Status:     RequestStatus(q.Get("status")),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		h.logger.Error("list leave requests", slog.Any("error", err))
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
	req, err := h.service.Get(r.Context(), tc.Company.ID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

type submitRequest struct {
	EmployeeID int64     `json:"employee_id" validate:"required"`
	Type       string    `json:"type" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	Reason     string    `json:"reason" validate:"max=2000"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return
	}
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Submit(r.Context(), SubmitInput{
		CompanyID:  tc.Company.ID,
		EmployeeID: req.EmployeeID,
		Type:       LeaveType(req.Type),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, (*Service).Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, (*Service).Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(*Service, context.Context, int64, int64, int64) (Request, error)) {
	tc, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	decided, err := fn(h.service, r.Context(), tc.Company.ID, id, tc.UserID)
	if err != nil {
		h.logger.Error("review leave request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, decided)
}

func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (tenants.TenantContext, int64, bool) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return tenants.TenantContext{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request id")
		return tenants.TenantContext{}, 0, false
	}
	return tc, id, true
}
