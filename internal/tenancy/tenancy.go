// Package tenancy decides, for each navigation, whether the visitor is
// on the platform surface or a tenant surface, and if the latter, which
// tenant. Resolution has no dependency on identity and runs before it.
package tenancy

import (
	"github.com/sekolahku/platform/internal/domain/tenant"
)

// Surface is the kind of site the visitor is browsing.
type Surface string

const (
	// SurfacePlatform is the shared marketing/management site.
	SurfacePlatform Surface = "platform"
	// SurfaceTenant is a visitor context scoped to exactly one school.
	SurfaceTenant Surface = "tenant"
)

// Context is the point-in-time resolution snapshot for one navigation.
// Readers must treat it as immutable; it is re-derived on every request.
//
// On a tenant surface Tenant may still be nil: an unresolvable domain
// yields a "school not found" state, which is distinct from being on
// the platform surface.
type Context struct {
	Surface       Surface        `json:"surface"`
	Tenant        *tenant.Tenant `json:"tenant,omitempty"`
	DevOverrideID *int64         `json:"dev_override_id,omitempty"`
}

// OnPlatform reports whether the visitor is on the platform surface.
func (c Context) OnPlatform() bool { return c.Surface == SurfacePlatform }

// OnTenant reports whether the visitor is on a tenant surface.
func (c Context) OnTenant() bool { return c.Surface == SurfaceTenant }
