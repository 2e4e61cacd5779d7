package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sekolahku/platform/internal/domain"
	"github.com/sekolahku/platform/internal/domain/tenant"
)

const tenantColumns = `id, domain, name, accent, enabled, created_at, updated_at`

// LookupByDomain implements the directory lookup for a normalized host.
// Disabled tenants resolve as not found: a switched-off school site
// behaves exactly like one that was never registered.
func (s *Store) LookupByDomain(ctx context.Context, d string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE domain = $1 AND enabled`,
		tenant.NormalizeDomain(d))

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lookup tenant by domain %s: %w", d, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup tenant by domain: %w", err)
	}
	return t, nil
}

// LookupByID implements the directory lookup for an explicit tenant key.
func (s *Store) LookupByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1 AND enabled`, id)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lookup tenant %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup tenant: %w", err)
	}
	return t, nil
}

// GetTenant fetches a tenant by id regardless of enabled state. The
// management surfaces need to see disabled tenants; directory lookups
// must not.
func (s *Store) GetTenant(ctx context.Context, id int64) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get tenant %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// ListTenants returns all tenants, including disabled ones, for the
// platform console.
func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

func (s *Store) CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tenants (domain, name, accent) VALUES ($1, $2, $3)
		 RETURNING `+tenantColumns,
		tenant.NormalizeDomain(req.Domain), req.Name, req.Accent)

	t, err := scanTenant(row)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET name = $2, accent = $3, enabled = $4, updated_at = now()
		 WHERE id = $1`,
		t.ID, t.Name, t.Accent, t.Enabled)
	if err != nil {
		return fmt.Errorf("update tenant %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update tenant %d: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

func scanTenant(row scannable) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Domain, &t.Name, &t.Accent, &t.Enabled, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
