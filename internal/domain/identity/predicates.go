package identity

// Permission predicates. All of these are pure functions over the
// identity's permission set: no caching, no side effects, cheap to call
// on every render of an affordance. A nil identity holds nothing.

// HasPermission reports whether the identity holds p.
func (id *Identity) HasPermission(p Permission) bool {
	return id != nil && id.Permissions.Has(p)
}

// CanCreate reports whether the identity may create resources of kind.
func (id *Identity) CanCreate(kind ResourceKind) bool {
	return id.HasPermission(createPerm[kind])
}

// CanEdit reports whether the identity may edit a resource of kind
// authored by ownerID. Unrestricted edit wins; otherwise the own-only
// capability applies when the identity authored the resource.
func (id *Identity) CanEdit(kind ResourceKind, ownerID int64) bool {
	if id.HasPermission(editPerm[kind]) {
		return true
	}
	return id.HasPermission(editOwnPerm[kind]) && id.ID == ownerID
}

// CanDelete mirrors CanEdit for the delete capability.
func (id *Identity) CanDelete(kind ResourceKind, ownerID int64) bool {
	if id.HasPermission(deletePerm[kind]) {
		return true
	}
	return id.HasPermission(deleteOwnPerm[kind]) && id.ID == ownerID
}

// Coarse-grained feature toggles used by management UI.

func (id *Identity) CanManageUsers() bool    { return id.HasPermission(PermManageUsers) }
func (id *Identity) CanManageSchool() bool   { return id.HasPermission(PermManageSchool) }
func (id *Identity) CanManageSettings() bool { return id.HasPermission(PermManageSettings) }
