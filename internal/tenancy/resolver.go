package tenancy

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sekolahku/platform/internal/config"
	"github.com/sekolahku/platform/internal/domain"
	"github.com/sekolahku/platform/internal/domain/tenant"
	"github.com/sekolahku/platform/internal/port/directory"
	"github.com/sekolahku/platform/internal/resilience"
)

// Resolver turns an effective host plus an optional dev override into a
// tenancy Context. Directory lookups go through a circuit breaker; a
// lookup failure is treated exactly like a miss (fail closed, never
// admit on a collaborator error).
type Resolver struct {
	dir             directory.Directory
	breaker         *resilience.Breaker
	platformDomain  string
	devMode         bool
	previewSuffixes []string
}

// NewResolver creates a Resolver from the platform configuration.
func NewResolver(dir directory.Directory, breaker *resilience.Breaker, cfg config.Platform) *Resolver {
	suffixes := make([]string, 0, len(cfg.PreviewSuffixes))
	for _, s := range cfg.PreviewSuffixes {
		suffixes = append(suffixes, tenant.NormalizeDomain(s))
	}
	return &Resolver{
		dir:             dir,
		breaker:         breaker,
		platformDomain:  tenant.NormalizeDomain(cfg.Domain),
		devMode:         cfg.DevMode,
		previewSuffixes: suffixes,
	}
}

// DevModeActive reports whether the dev-override channel is honored for
// the given host: the explicit flag, a recognized preview-hosting
// suffix, or the loopback name.
func (r *Resolver) DevModeActive(host string) bool {
	if r.devMode {
		return true
	}
	h := tenant.NormalizeDomain(host)
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return true
	}
	for _, suffix := range r.previewSuffixes {
		if h == suffix || strings.HasSuffix(h, "."+suffix) {
			return true
		}
	}
	return false
}

// Resolve computes the tenancy Context for one navigation.
//
// In development mode the override is the only way onto a tenant
// surface; without it the visitor is on the platform surface regardless
// of host. Outside development mode the platform surface is exactly the
// configured platform domain and every other host is a tenant surface.
func (r *Resolver) Resolve(ctx context.Context, effectiveHost string, devOverride *int64) Context {
	if r.DevModeActive(effectiveHost) {
		if devOverride == nil {
			return Context{Surface: SurfacePlatform}
		}
		return Context{
			Surface:       SurfaceTenant,
			Tenant:        r.lookupByID(ctx, *devOverride),
			DevOverrideID: devOverride,
		}
	}

	host := tenant.NormalizeDomain(effectiveHost)
	if host == r.platformDomain {
		return Context{Surface: SurfacePlatform}
	}
	return Context{Surface: SurfaceTenant, Tenant: r.lookupByDomain(ctx, host)}
}

// lookupByID resolves an override tenant id. A miss or a directory
// failure yields nil, which callers render as "school not found".
func (r *Resolver) lookupByID(ctx context.Context, id int64) *tenant.Tenant {
	var t *tenant.Tenant
	err := r.breaker.Execute(func() error {
		found, err := r.dir.LookupByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		t = found
		return err
	})
	if err != nil {
		slog.Warn("directory lookup by id failed", "tenant_id", id, "error", err)
		return nil
	}
	return t
}

func (r *Resolver) lookupByDomain(ctx context.Context, host string) *tenant.Tenant {
	var t *tenant.Tenant
	err := r.breaker.Execute(func() error {
		found, err := r.dir.LookupByDomain(ctx, host)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		t = found
		return err
	})
	if err != nil {
		slog.Warn("directory lookup by domain failed", "host", host, "error", err)
		return nil
	}
	return t
}
