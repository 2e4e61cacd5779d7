// Package guard decides whether a visitor may enter a protected
// management area. The decision is a pure function of (tenancy context,
// identity, area requirements); the navigation side effect lives in the
// HTTP adapter so the logic is testable without a rendering layer.
package guard

import (
	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/tenancy"
)

// Outcome is the result of a guard evaluation.
type Outcome string

const (
	// Admitted lets the protected area render.
	Admitted Outcome = "admitted"
	// RedirectLogin sends the visitor toward an entry point.
	RedirectLogin Outcome = "redirect_login"
	// RedirectDenied bounces an authenticated but unauthorized visitor.
	RedirectDenied Outcome = "redirect_denied"
)

// Decision carries the outcome, the redirect target for non-admitted
// outcomes, and a user-visible notice. A denial is never a silent no-op.
type Decision struct {
	Outcome  Outcome
	Location string
	Notice   string
}

// Area describes the requirements of one protected management area.
type Area struct {
	Name         string
	Surface      tenancy.Surface
	Role         identity.Role
	TenantScoped bool
}

// The three management consoles.
var (
	SuperConsole    = Area{Name: "super", Surface: tenancy.SurfacePlatform, Role: identity.RoleSuperAdmin}
	AdminConsole    = Area{Name: "admin", Surface: tenancy.SurfaceTenant, Role: identity.RoleSchoolAdmin, TenantScoped: true}
	OperatorConsole = Area{Name: "operator", Surface: tenancy.SurfaceTenant, Role: identity.RoleOperator, TenantScoped: true}
)

// Route targets used by decisions.
const (
	PlatformRoot  = "/"
	TenantRoot    = "/"
	TenantLogin   = "/login"
	PlatformLogin = "/super/login"
)

// HomePath returns the console home for a role. A wrong-role denial
// bounces the visitor to their own console, not a blank error page.
func HomePath(r identity.Role) string {
	switch r {
	case identity.RoleSuperAdmin:
		return "/super"
	case identity.RoleSchoolAdmin:
		return "/admin"
	default:
		return "/operator"
	}
}

// Decide evaluates the transition rules in order. Ordering matters:
// tenant presence before identity (an absent tenant makes identity
// moot), surface exclusivity next (a hard boundary independent of who
// is asking), then role before tenant ownership (a wrong role is the
// more specific, more actionable error).
func Decide(tc tenancy.Context, id *identity.Identity, area Area) Decision {
	// 1. Tenant required but absent: this place does not exist here.
	if area.Surface == tenancy.SurfaceTenant && tc.Tenant == nil {
		return Decision{
			Outcome:  RedirectLogin,
			Location: PlatformRoot,
			Notice:   "this school isn't set up here",
		}
	}

	// 2. Platform-only console must never render under a tenant domain,
	// even for a super-admin credential.
	if area.Surface == tenancy.SurfacePlatform && tc.OnTenant() {
		return Decision{
			Outcome:  RedirectDenied,
			Location: TenantRoot,
			Notice:   "that console is not available on a school site",
		}
	}

	// 3. No identity: go to the area-appropriate login entry point.
	if id == nil {
		loc := PlatformLogin
		if tc.OnTenant() {
			loc = TenantLogin
		}
		return Decision{Outcome: RedirectLogin, Location: loc, Notice: "please sign in"}
	}

	// 4. Wrong role: bounce to that identity's own home area.
	if id.Role != area.Role {
		return Decision{
			Outcome:  RedirectDenied,
			Location: HomePath(id.Role),
			Notice:   "your account does not have access to the " + area.Name + " console",
		}
	}

	// 5. Valid credential, wrong school.
	if area.TenantScoped && (id.TenantID == nil || *id.TenantID != tc.Tenant.ID) {
		return Decision{
			Outcome:  RedirectDenied,
			Location: TenantLogin,
			Notice:   "your account belongs to a different school",
		}
	}

	return Decision{Outcome: Admitted}
}
