package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedDenials struct {
	reasons []string
}

func (r *recordedDenials) RecordDenial(reason string) {
	r.reasons = append(r.reasons, reason)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddlewareDeniesWithoutSubject(t *testing.T) {
	handler := Middleware{}.RequireRole(RoleEmployee)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewarePassesGrantedSubject(t *testing.T) {
	handler := Middleware{}.RequirePermission(PermEmployees, ActionRead)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req = req.WithContext(ContextWithSubject(req.Context(), activeSubject(RoleEmployee)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareRecordsDenialReason(t *testing.T) {
	denials := &recordedDenials{}
	handler := Middleware{Denials: denials}.RequireWritable()(okHandler())

	sub := activeSubject(RoleCompanyAdmin)
	sub.State = TenantState{Impersonating: true}
	req := httptest.NewRequest(http.MethodPost, "/employees", nil)
	req = req.WithContext(ContextWithSubject(req.Context(), sub))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, []string{"impersonating"}, denials.reasons)
	require.Contains(t, rec.Body.String(), "Read-only mode")
}
