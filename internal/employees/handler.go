package employees

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

// Handler wires HTTP endpoints for the employee directory.
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

// MountRoutes registers directory routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireModule(access.ModuleEmployees))
	r.With(h.guard.RequirePermission(access.PermEmployees, access.ActionRead)).Get("/", h.list)
	r.With(h.guard.RequirePermission(access.PermEmployees, access.ActionRead)).Get("/{employeeID}", h.get)
	r.With(h.guard.RequirePermission(access.PermEmployees, access.ActionCreate), h.guard.RequireWritable()).Post("/", h.create)
	r.With(h.guard.RequirePermission(access.PermEmployees, access.ActionUpdate), h.guard.RequireWritable()).Put("/{employeeID}", h.update)
	r.With(h.guard.RequirePermission(access.PermEmployees, access.ActionDelete), h.guard.RequireWritable()).Delete("/{employeeID}", h.deactivate)
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
		Search:    q.Get("q"),
		Status:    EmployeeStatus(q.Get("status")),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
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
	emp, err := h.service.Get(r.Context(), tc.Company.ID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

type employeeRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Email      string     `json:"email" validate:"required,email"`
	Title      string     `json:"title" validate:"max=200"`
	Department string     `json:"department" validate:"max=200"`
	HiredAt    *time.Time `json:"hired_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenants.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active tenant")
		return
	}
	var req employeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	seatLimit := 0
	if tc.Subject.Plan != nil {
		seatLimit = tc.Subject.Plan.MaxEmployees
	}
	emp, err := h.service.Create(r.Context(), CreateInput{
		CompanyID:  tc.Company.ID,
		Name:       req.Name,
		Email:      req.Email,
		Title:      req.Title,
		Department: req.Department,
		HiredAt:    req.HiredAt,
		SeatLimit:  seatLimit,
	})
	if err != nil {
		h.logger.Error("create employee", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, emp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tc, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	var req employeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	emp, err := h.service.Update(r.Context(), UpdateInput{
		CompanyID:  tc.Company.ID,
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Title:      req.Title,
		Department: req.Department,
		HiredAt:    req.HiredAt,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	tc, id, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	if err := h.service.Deactivate(r.Context(), tc.Company.ID, id); err != nil {
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
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid employee id")
		return tenants.TenantContext{}, 0, false
	}
	return tc, id, true
}
