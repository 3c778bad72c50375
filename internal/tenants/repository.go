package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/shared"
)

// Repository provides PostgreSQL backed persistence for companies and
// memberships.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const companyColumns = `id, name, slug, is_active, plan, subscription_status, trial_ends_at, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.Plan, &status, &c.TrialEndsAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.ErrNotFound
		}
		return Company{}, err
	}
	c.SubscriptionStatus = access.SubscriptionStatus(status)
	return c, nil
}

// GetCompany fetches a company by ID.
func (r *Repository) GetCompany(ctx context.Context, id int64) (Company, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

// GetMembership fetches a user's role within a company.
func (r *Repository) GetMembership(ctx context.Context, userID, companyID int64) (Membership, error) {
	var m Membership
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, company_id, role, created_at FROM memberships WHERE user_id = $1 AND company_id = $2`,
		userID, companyID,
	).Scan(&m.UserID, &m.CompanyID, &role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Membership{}, shared.ErrNotFound
		}
		return Membership{}, err
	}
	m.Role = access.Role(role)
	return m, nil
}

// ListTrialEnded returns active trialing companies whose trial end has
// passed, for the trial scan job.
func (r *Repository) ListTrialEnded(ctx context.Context, now time.Time) ([]Company, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE subscription_status = 'trialing' AND trial_ends_at IS NOT NULL AND trial_ends_at < $1`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateSubscriptionStatus flips the billing status, also deactivating
// the company when the status no longer permits writes.
func (r *Repository) UpdateSubscriptionStatus(ctx context.Context, companyID int64, status access.SubscriptionStatus) error {
	active := status == access.SubscriptionActive || status == access.SubscriptionTrialing
	tag, err := r.pool.Exec(ctx,
		`UPDATE companies SET subscription_status = $2, is_active = $3, updated_at = NOW() WHERE id = $1`,
		companyID, string(status), active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
