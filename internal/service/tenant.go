package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sekolahku/platform/internal/domain/tenant"
	"github.com/sekolahku/platform/internal/port/directory"
)

// Invalidator drops cached directory entries for a tenant. The caching
// directory implements it; tests pass nil.
type Invalidator interface {
	Invalidate(t *tenant.Tenant)
}

// TenantService manages the tenant directory from the platform console
// and the admin CLI.
type TenantService struct {
	store directory.Store
	cache Invalidator // optional
}

// NewTenantService creates a tenant service. cache may be nil.
func NewTenantService(store directory.Store, cache Invalidator) *TenantService {
	return &TenantService{store: store, cache: cache}
}

// List returns every registered tenant, disabled ones included.
func (s *TenantService) List(ctx context.Context) ([]tenant.Tenant, error) {
	return s.store.ListTenants(ctx)
}

// Get fetches one tenant by id regardless of enabled state.
func (s *TenantService) Get(ctx context.Context, id int64) (*tenant.Tenant, error) {
	return s.store.GetTenant(ctx, id)
}

// Create registers a new tenant under its normalized domain.
func (s *TenantService) Create(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	t, err := s.store.CreateTenant(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Info("tenant created", "tenant_id", t.ID, "domain", t.Domain)
	return t, nil
}

// Update applies a partial update and invalidates the directory cache
// so the next resolution sees the fresh record. Disabling a tenant
// takes effect on resolution, not on sessions already established.
func (s *TenantService) Update(ctx context.Context, id int64, req tenant.UpdateRequest) (*tenant.Tenant, error) {
	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Accent != "" {
		t.Accent = req.Accent
	}
	if req.Enabled != nil {
		t.Enabled = *req.Enabled
	}
	if t.Name == "" {
		return nil, errors.New("tenant name is required")
	}

	if err := s.store.UpdateTenant(ctx, t); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(t)
	}
	slog.Info("tenant updated", "tenant_id", t.ID, "enabled", t.Enabled)
	return t, nil
}
