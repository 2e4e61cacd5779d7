package identity

import "testing"

func int64Ptr(v int64) *int64 { return &v }

func TestAccountValidateRoleTenantInvariant(t *testing.T) {
	tests := []struct {
		name    string
		acct    Account
		wantErr bool
	}{
		{"super admin without tenant", Account{Role: RoleSuperAdmin}, false},
		{"super admin with tenant", Account{Role: RoleSuperAdmin, TenantID: int64Ptr(1)}, true},
		{"school admin with tenant", Account{Role: RoleSchoolAdmin, TenantID: int64Ptr(1)}, false},
		{"school admin without tenant", Account{Role: RoleSchoolAdmin}, true},
		{"operator with tenant", Account{Role: RoleOperator, TenantID: int64Ptr(2)}, false},
		{"operator without tenant", Account{Role: RoleOperator}, true},
		{"unknown role", Account{Role: Role("teacher")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDerivesPermissionsFromRole(t *testing.T) {
	acct := &Account{ID: 7, Email: "op@sdn1.sch.id", Role: RoleOperator, TenantID: int64Ptr(1)}
	id := New(acct)

	if id.ID != 7 || id.Role != RoleOperator {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if !id.Permissions.Has(PermCreatePost) {
		t.Error("operator should hold post:create")
	}
	if id.Permissions.Has(PermManageUsers) {
		t.Error("operator must not hold users:manage")
	}
}

func TestLoginInputValidate(t *testing.T) {
	valid := LoginInput{Email: "a@b.id", Password: "secret", Role: RoleOperator}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	invalid := []LoginInput{
		{Password: "secret", Role: RoleOperator},
		{Email: "not-an-email", Password: "secret", Role: RoleOperator},
		{Email: "a@b.id", Role: RoleOperator},
		{Email: "a@b.id", Password: "secret", Role: Role("teacher")},
		{Email: "a@b.id", Password: "secret"},
	}
	for i, in := range invalid {
		if err := in.Validate(); err == nil {
			t.Errorf("case %d: expected error for %+v", i, in)
		}
	}
}
