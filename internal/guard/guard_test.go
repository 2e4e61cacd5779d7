package guard

import (
	"testing"

	"github.com/sekolahku/platform/internal/domain/identity"
	"github.com/sekolahku/platform/internal/domain/tenant"
	"github.com/sekolahku/platform/internal/tenancy"
)

func int64Ptr(v int64) *int64 { return &v }

func tenantCtx(id int64) tenancy.Context {
	return tenancy.Context{
		Surface: tenancy.SurfaceTenant,
		Tenant:  &tenant.Tenant{ID: id, Domain: "sdn1.sch.id", Name: "SDN 1", Enabled: true},
	}
}

func platformCtx() tenancy.Context {
	return tenancy.Context{Surface: tenancy.SurfacePlatform}
}

func schoolAdmin(tenantID int64) *identity.Identity {
	return identity.New(&identity.Account{ID: 10, Role: identity.RoleSchoolAdmin, TenantID: int64Ptr(tenantID)})
}

func operator(tenantID int64) *identity.Identity {
	return identity.New(&identity.Account{ID: 11, Role: identity.RoleOperator, TenantID: int64Ptr(tenantID)})
}

func superAdmin() *identity.Identity {
	return identity.New(&identity.Account{ID: 1, Role: identity.RoleSuperAdmin})
}

func TestTenantAbsenceBeatsEverything(t *testing.T) {
	// Even a valid school admin bounces when no tenant resolved: the
	// console simply does not exist on this surface.
	tc := tenancy.Context{Surface: tenancy.SurfaceTenant}
	d := Decide(tc, schoolAdmin(1), AdminConsole)

	if d.Outcome != RedirectLogin {
		t.Fatalf("outcome = %s, want %s", d.Outcome, RedirectLogin)
	}
	if d.Location != PlatformRoot {
		t.Errorf("location = %s, want %s", d.Location, PlatformRoot)
	}
	if d.Notice == "" {
		t.Error("denial must carry a notice")
	}
}

func TestPlatformConsoleNeverRendersOnTenantSurface(t *testing.T) {
	// Surface exclusivity is a hard boundary: even a super admin is
	// denied under a school domain.
	d := Decide(tenantCtx(1), superAdmin(), SuperConsole)

	if d.Outcome != RedirectDenied {
		t.Fatalf("outcome = %s, want %s", d.Outcome, RedirectDenied)
	}
	if d.Location != TenantRoot {
		t.Errorf("location = %s, want %s", d.Location, TenantRoot)
	}
}

func TestAnonymousVisitorGoesToLogin(t *testing.T) {
	d := Decide(tenantCtx(1), nil, AdminConsole)
	if d.Outcome != RedirectLogin || d.Location != TenantLogin {
		t.Fatalf("tenant surface: got %+v, want login redirect to %s", d, TenantLogin)
	}

	d = Decide(platformCtx(), nil, SuperConsole)
	if d.Outcome != RedirectLogin || d.Location != PlatformLogin {
		t.Fatalf("platform surface: got %+v, want login redirect to %s", d, PlatformLogin)
	}
}

func TestWrongRoleBouncesToOwnHome(t *testing.T) {
	// An operator opening the admin console lands on the operator
	// console, not a blank error page.
	d := Decide(tenantCtx(1), operator(1), AdminConsole)
	if d.Outcome != RedirectDenied {
		t.Fatalf("outcome = %s, want %s", d.Outcome, RedirectDenied)
	}
	if d.Location != "/operator" {
		t.Errorf("location = %s, want /operator", d.Location)
	}

	d = Decide(tenantCtx(1), schoolAdmin(1), OperatorConsole)
	if d.Location != "/admin" {
		t.Errorf("location = %s, want /admin", d.Location)
	}
}

func TestWrongTenantIsDenied(t *testing.T) {
	// Valid credential, different school.
	d := Decide(tenantCtx(2), schoolAdmin(1), AdminConsole)

	if d.Outcome != RedirectDenied {
		t.Fatalf("outcome = %s, want %s", d.Outcome, RedirectDenied)
	}
	if d.Location != TenantLogin {
		t.Errorf("location = %s, want %s", d.Location, TenantLogin)
	}
}

func TestMatchingIdentityIsAdmitted(t *testing.T) {
	cases := []struct {
		name string
		tc   tenancy.Context
		id   *identity.Identity
		area Area
	}{
		{"super on platform", platformCtx(), superAdmin(), SuperConsole},
		{"admin on own school", tenantCtx(1), schoolAdmin(1), AdminConsole},
		{"operator on own school", tenantCtx(1), operator(1), OperatorConsole},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.tc, tt.id, tt.area)
			if d.Outcome != Admitted {
				t.Fatalf("got %+v, want admitted", d)
			}
			if d.Location != "" || d.Notice != "" {
				t.Errorf("admission must not carry redirect state: %+v", d)
			}
		})
	}
}

func TestRoleMismatchCheckedBeforeTenantOwnership(t *testing.T) {
	// An operator from another school opening the admin console gets
	// the role denial, not the tenant denial: role is the more specific,
	// more actionable error.
	d := Decide(tenantCtx(2), operator(1), AdminConsole)
	if d.Location != "/operator" {
		t.Fatalf("location = %s, want role bounce to /operator", d.Location)
	}
}

func TestHomePath(t *testing.T) {
	if got := HomePath(identity.RoleSuperAdmin); got != "/super" {
		t.Errorf("super home = %s", got)
	}
	if got := HomePath(identity.RoleSchoolAdmin); got != "/admin" {
		t.Errorf("admin home = %s", got)
	}
	if got := HomePath(identity.RoleOperator); got != "/operator" {
		t.Errorf("operator home = %s", got)
	}
}
