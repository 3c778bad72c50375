// Package impersonation tracks platform-admin impersonation sessions.
// While an admin holds a session for a tenant, that admin's writes against
// the tenant fail; other members of the tenant are unaffected.
package impersonation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cadence-hr/cadence/internal/shared"
)

// ErrNotImpersonating is returned when stopping without an active session.
var ErrNotImpersonating = errors.New("impersonation: no active session")

// AuditPort records impersonation lifecycle events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service stores impersonation sessions in Redis with a TTL so abandoned
// sessions expire on their own.
type Service struct {
	client *redis.Client
	ttl    time.Duration
	audit  AuditPort
}

// NewService constructs a Service.
func NewService(client *redis.Client, ttl time.Duration, audit AuditPort) *Service {
	return &Service{client: client, ttl: ttl, audit: audit}
}

func sessionKey(companyID int64) string {
	return fmt.Sprintf("impersonate:company:%d", companyID)
}

// Start opens an impersonation session for the company, recording the
// acting platform admin. Restarting refreshes the TTL.
func (s *Service) Start(ctx context.Context, adminID, companyID int64) error {
	if err := s.client.Set(ctx, sessionKey(companyID), strconv.FormatInt(adminID, 10), s.ttl).Err(); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   adminID,
			CompanyID: companyID,
			Action:    "impersonation.start",
			Entity:    "company",
			EntityID:  strconv.FormatInt(companyID, 10),
		})
	}
	return nil
}

// Stop ends the session for the company.
func (s *Service) Stop(ctx context.Context, adminID, companyID int64) error {
	deleted, err := s.client.Del(ctx, sessionKey(companyID)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotImpersonating
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   adminID,
			CompanyID: companyID,
			Action:    "impersonation.stop",
			Entity:    "company",
			EntityID:  strconv.FormatInt(companyID, 10),
		})
	}
	return nil
}

// ActiveFor reports whether userID is the admin holding the impersonation
// session for the company. Regular members always get false, so only the
// impersonating admin is forced into read-only mode. It satisfies the
// tenant layer's ImpersonationChecker.
func (s *Service) ActiveFor(ctx context.Context, userID, companyID int64) (bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(companyID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return raw == strconv.FormatInt(userID, 10), nil
}

// Admin returns the platform admin holding the session, if any.
func (s *Service) Admin(ctx context.Context, companyID int64) (int64, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(companyID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	adminID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return adminID, true, nil
}
