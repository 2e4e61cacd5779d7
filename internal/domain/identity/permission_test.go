package identity

import "testing"

func TestForRoleIsTotal(t *testing.T) {
	for role := range ValidRoles {
		if ForRole(role) == nil {
			t.Errorf("ForRole(%s) returned nil", role)
		}
	}
	// Unknown roles get the empty set, not nil semantics.
	s := ForRole(Role("teacher"))
	if s == nil {
		t.Fatal("ForRole(unknown) returned nil")
	}
	if len(s) != 0 {
		t.Fatalf("ForRole(unknown) = %v, want empty", s)
	}
}

func TestAdminRolesHoldUnrestrictedContentPermissions(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleSchoolAdmin} {
		s := ForRole(role)
		for _, p := range []Permission{
			PermManageSchool, PermManageUsers, PermManageSettings,
			PermCreatePost, PermEditPost, PermDeletePost,
			PermCreateGalleryItem, PermEditGalleryItem, PermDeleteGalleryItem,
		} {
			if !s.Has(p) {
				t.Errorf("%s missing %s", role, p)
			}
		}
		for _, p := range []Permission{PermEditOwnPost, PermDeleteOwnPost} {
			if s.Has(p) {
				t.Errorf("%s should not need own-only variant %s", role, p)
			}
		}
	}
}

func TestOperatorHoldsOwnOnlyContentPermissions(t *testing.T) {
	s := ForRole(RoleOperator)
	for _, p := range []Permission{
		PermCreatePost, PermViewOwnPost, PermEditOwnPost, PermDeleteOwnPost,
		PermCreateGalleryItem, PermEditOwnGalleryItem, PermDeleteOwnGalleryItem,
	} {
		if !s.Has(p) {
			t.Errorf("operator missing %s", p)
		}
	}
	for _, p := range []Permission{
		PermManageSchool, PermManageUsers, PermManageSettings,
		PermEditPost, PermDeletePost, PermEditGalleryItem, PermDeleteGalleryItem,
	} {
		if s.Has(p) {
			t.Errorf("operator must not hold %s", p)
		}
	}
}

func TestOwnershipPredicates(t *testing.T) {
	admin := New(&Account{ID: 1, Role: RoleSchoolAdmin, TenantID: int64Ptr(1)})
	op := New(&Account{ID: 2, Role: RoleOperator, TenantID: int64Ptr(1)})

	for _, kind := range []ResourceKind{KindPost, KindGallery} {
		// Unrestricted edit ignores ownership entirely.
		if !admin.CanEdit(kind, 99) {
			t.Errorf("admin should edit any %s", kind)
		}
		if !admin.CanDelete(kind, 99) {
			t.Errorf("admin should delete any %s", kind)
		}

		// Own-only applies exactly to the author.
		if !op.CanEdit(kind, op.ID) {
			t.Errorf("operator should edit own %s", kind)
		}
		if op.CanEdit(kind, admin.ID) {
			t.Errorf("operator must not edit another author's %s", kind)
		}
		if !op.CanDelete(kind, op.ID) {
			t.Errorf("operator should delete own %s", kind)
		}
		if op.CanDelete(kind, 99) {
			t.Errorf("operator must not delete another author's %s", kind)
		}

		if !admin.CanCreate(kind) || !op.CanCreate(kind) {
			t.Errorf("both roles should create %s", kind)
		}
	}

	if !admin.CanManageUsers() || !admin.CanManageSchool() || !admin.CanManageSettings() {
		t.Error("school admin should hold all management toggles")
	}
	if op.CanManageUsers() || op.CanManageSchool() || op.CanManageSettings() {
		t.Error("operator must not hold management toggles")
	}
}

func TestNilIdentityHoldsNothing(t *testing.T) {
	var id *Identity
	if id.HasPermission(PermCreatePost) {
		t.Error("nil identity must hold no permissions")
	}
	if id.CanCreate(KindPost) || id.CanEdit(KindPost, 0) || id.CanDelete(KindGallery, 0) {
		t.Error("nil identity must fail all capability checks")
	}
	if id.CanManageUsers() || id.CanManageSchool() || id.CanManageSettings() {
		t.Error("nil identity must fail management toggles")
	}
}
