package tenants

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/shared"
)

// Middleware resolves the tenant context for authenticated requests and
// places the access subject in the request context. Requests without a
// session or active company pass through without a subject; downstream
// guards deny those by default.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// ResolveSubject is the http middleware.
func (m Middleware) ResolveSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		userID, companyID, ok := sessionIDs(sess)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		tc, err := m.Service.Resolve(r.Context(), userID, companyID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("resolve tenant context",
					slog.Int64("user_id", userID),
					slog.Int64("company_id", companyID),
					slog.Any("error", err),
				)
			}
			// Fail closed: continue without a subject.
			next.ServeHTTP(w, r)
			return
		}

		ctx := access.ContextWithSubject(r.Context(), tc.Subject)
		ctx = ContextWithTenant(ctx, tc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDs(sess *shared.Session) (userID, companyID int64, ok bool) {
	if sess == nil {
		return 0, 0, false
	}
	rawUser := strings.TrimSpace(sess.User())
	rawCompany := strings.TrimSpace(sess.Company())
	if rawUser == "" || rawCompany == "" {
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(rawUser, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	companyID, err = strconv.ParseInt(rawCompany, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return userID, companyID, true
}
