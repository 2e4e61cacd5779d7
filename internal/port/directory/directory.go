// Package directory defines the port for the tenant directory service.
package directory

import (
	"context"

	"github.com/sekolahku/platform/internal/domain/tenant"
)

// Directory maps a domain or tenant key to a tenant record.
// Lookups return domain.ErrNotFound for unknown tenants; any other
// error means the directory itself is unavailable.
type Directory interface {
	LookupByDomain(ctx context.Context, domain string) (*tenant.Tenant, error)
	LookupByID(ctx context.Context, id int64) (*tenant.Tenant, error)
}

// Store extends Directory with the management operations used by the
// platform console and the admin CLI.
type Store interface {
	Directory
	GetTenant(ctx context.Context, id int64) (*tenant.Tenant, error)
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
}
