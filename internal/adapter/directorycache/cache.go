// Package directorycache decorates the tenant directory with an
// in-process ristretto cache. Host-to-tenant resolution runs on every
// navigation, so the hot path must not hit Postgres each time.
package directorycache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/sekolahku/platform/internal/domain/tenant"
	"github.com/sekolahku/platform/internal/port/directory"
)

// Directory caches lookups from an inner directory. Misses and errors
// are never cached: a "not found" must become visible the moment the
// tenant is registered.
type Directory struct {
	inner directory.Directory
	cache *ristretto.Cache[string, *tenant.Tenant]
	group singleflight.Group
	ttl   time.Duration
}

// New creates a caching directory. maxSizeBytes bounds the total cache
// cost; ttl bounds staleness after a tenant record changes.
func New(inner directory.Directory, maxSizeBytes int64, ttl time.Duration) (*Directory, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *tenant.Tenant]{
		NumCounters: maxSizeBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxSizeBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("directory cache: %w", err)
	}
	return &Directory{inner: inner, cache: cache, ttl: ttl}, nil
}

// LookupByDomain resolves a host, collapsing concurrent lookups for the
// same key into a single inner call.
func (d *Directory) LookupByDomain(ctx context.Context, dom string) (*tenant.Tenant, error) {
	key := "domain:" + tenant.NormalizeDomain(dom)
	return d.lookup(ctx, key, func() (*tenant.Tenant, error) {
		return d.inner.LookupByDomain(ctx, dom)
	})
}

// LookupByID resolves an explicit tenant key.
func (d *Directory) LookupByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	key := fmt.Sprintf("id:%d", id)
	return d.lookup(ctx, key, func() (*tenant.Tenant, error) {
		return d.inner.LookupByID(ctx, id)
	})
}

func (d *Directory) lookup(_ context.Context, key string, fetch func() (*tenant.Tenant, error)) (*tenant.Tenant, error) {
	if t, ok := d.cache.Get(key); ok {
		return t, nil
	}

	v, err, _ := d.group.Do(key, func() (any, error) {
		t, err := fetch()
		if err != nil {
			return nil, err
		}
		d.cache.SetWithTTL(key, t, approxCost(t), d.ttl)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*tenant.Tenant), nil
}

// Invalidate drops both cache entries for a tenant after a management
// update so the next resolution sees fresh attributes.
func (d *Directory) Invalidate(t *tenant.Tenant) {
	d.cache.Del(fmt.Sprintf("id:%d", t.ID))
	d.cache.Del("domain:" + tenant.NormalizeDomain(t.Domain))
}

// Wait blocks until buffered cache writes are applied.
func (d *Directory) Wait() {
	d.cache.Wait()
}

// Close releases cache resources.
func (d *Directory) Close() {
	d.cache.Close()
}

func approxCost(t *tenant.Tenant) int64 {
	return int64(len(t.Domain) + len(t.Name) + len(t.Accent) + 64)
}
