// Package identity defines the verified-user model: the three-role
// vocabulary, the login failure taxonomy, and the permission set
// derived from a role.
package identity

import (
	"errors"
	"fmt"
	"net/mail"
)

// Role is the authorization level of an account. The vocabulary is
// closed: exactly these three roles exist.
type Role string

const (
	// RoleSuperAdmin operates the platform console. Never tenant-scoped.
	RoleSuperAdmin Role = "super_admin"
	// RoleSchoolAdmin manages one school's site.
	RoleSchoolAdmin Role = "school_admin"
	// RoleOperator publishes content for one school, scoped to its own posts.
	RoleOperator Role = "operator"
)

// ValidRoles is the set of all valid roles.
var ValidRoles = map[Role]bool{
	RoleSuperAdmin:  true,
	RoleSchoolAdmin: true,
	RoleOperator:    true,
}

// Login failure taxonomy. Every login outcome maps onto exactly one of
// these; the HTTP layer renders them inline, never as a crash.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately collapsed to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRoleMismatch means the credential is valid but the account's role
	// does not match the console the login was issued for.
	ErrRoleMismatch = errors.New("account role does not match this console")
	// ErrTenantMismatch means the credential is valid for a different school.
	ErrTenantMismatch = errors.New("account belongs to a different school")
	// ErrBackendUnavailable means verification could not be completed.
	ErrBackendUnavailable = errors.New("credential service unavailable")
)

// Account is the raw record returned by the credential service after a
// successful email/password verification.
type Account struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	TenantID *int64 `json:"tenant_id,omitempty"` // nil for RoleSuperAdmin
}

// Validate enforces the role/tenant invariant: school-scoped roles carry
// an owning tenant id, the platform role never does.
func (a *Account) Validate() error {
	if !ValidRoles[a.Role] {
		return fmt.Errorf("invalid role %q", a.Role)
	}
	switch a.Role {
	case RoleSuperAdmin:
		if a.TenantID != nil {
			return errors.New("super admin must not have an owning tenant")
		}
	default:
		if a.TenantID == nil {
			return fmt.Errorf("role %s requires an owning tenant", a.Role)
		}
	}
	return nil
}

// Identity is a verified, logged-in account with its role-derived
// permission set. The set is computed once at login and never mutated.
type Identity struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	TenantID    *int64 `json:"tenant_id,omitempty"`
	Permissions Set    `json:"permissions"`
}

// New builds an Identity from a verified account, deriving the
// permission set from the static role map.
func New(a *Account) *Identity {
	return &Identity{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		TenantID:    a.TenantID,
		Permissions: ForRole(a.Role),
	}
}

// LoginInput is a login attempt against one console.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	TenantID *int64 `json:"tenant_id,omitempty"`
}

// Validate checks that the LoginInput has all required fields.
func (in *LoginInput) Validate() error {
	if in.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return errors.New("invalid email format")
	}
	if in.Password == "" {
		return errors.New("password is required")
	}
	if !ValidRoles[in.Role] {
		return errors.New("invalid role: must be super_admin, school_admin, or operator")
	}
	return nil
}
