package permissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/shared"
)

// Repository provides PostgreSQL backed persistence for overrides.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const overrideColumns = `id, user_id, company_id, module, action, allowed, created_by, created_at, updated_at`

func scanOverride(row pgx.Row) (Override, error) {
	var o Override
	var module, action string
	err := row.Scan(&o.ID, &o.UserID, &o.CompanyID, &module, &action, &o.Allowed, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Override{}, shared.ErrNotFound
		}
		return Override{}, err
	}
	o.Module = access.PermModule(module)
	o.Action = access.PermAction(action)
	return o, nil
}

// ListForUser returns all overrides for a user within a company.
func (r *Repository) ListForUser(ctx context.Context, userID, companyID int64) ([]Override, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+overrideColumns+` FROM permission_overrides WHERE user_id = $1 AND company_id = $2 ORDER BY module, action`,
		userID, companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overrides []Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// Upsert writes an override, superseding any prior record for the same
// (user, company, module, action) key.
func (r *Repository) Upsert(ctx context.Context, o Override) (Override, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO permission_overrides (user_id, company_id, module, action, allowed, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, company_id, module, action)
		DO UPDATE SET allowed = EXCLUDED.allowed, created_by = EXCLUDED.created_by, updated_at = NOW()
		RETURNING `+overrideColumns,
		o.UserID, o.CompanyID, string(o.Module), string(o.Action), o.Allowed, o.CreatedBy,
	)
	return scanOverride(row)
}

// Delete removes an override so access reverts to the role default.
func (r *Repository) Delete(ctx context.Context, userID, companyID int64, module access.PermModule, action access.PermAction) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM permission_overrides WHERE user_id = $1 AND company_id = $2 AND module = $3 AND action = $4`,
		userID, companyID, string(module), string(action),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
