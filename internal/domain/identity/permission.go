package identity

// Permission is an atomic capability token drawn from a fixed, closed
// vocabulary. Content families (posts, gallery) carry "own-only"
// variants restricted to resources the holder authored.
type Permission string

const (
	PermManageSchool   Permission = "school:manage"
	PermManageUsers    Permission = "users:manage"
	PermManageSettings Permission = "settings:manage"

	PermCreatePost    Permission = "post:create"
	PermEditPost      Permission = "post:edit"
	PermDeletePost    Permission = "post:delete"
	PermViewOwnPost   Permission = "post:view-own"
	PermEditOwnPost   Permission = "post:edit-own"
	PermDeleteOwnPost Permission = "post:delete-own"

	PermCreateGalleryItem    Permission = "gallery:create"
	PermEditGalleryItem      Permission = "gallery:edit"
	PermDeleteGalleryItem    Permission = "gallery:delete"
	PermEditOwnGalleryItem   Permission = "gallery:edit-own"
	PermDeleteOwnGalleryItem Permission = "gallery:delete-own"
)

// ResourceKind names a content family subject to create/edit/delete checks.
type ResourceKind string

const (
	KindPost    ResourceKind = "post"
	KindGallery ResourceKind = "gallery"
)

// Set is an immutable permission set. Never mutate a set obtained from
// ForRole; it is shared across every identity holding that role.
type Set map[Permission]struct{}

// Has reports whether p is in the set.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// rolePermissions is the static, total role → permission map. It is
// configuration data: the permission set is a pure function of role,
// never attached to individual accounts.
var rolePermissions = map[Role]Set{
	RoleSuperAdmin: setOf(
		PermManageSchool, PermManageUsers, PermManageSettings,
		PermCreatePost, PermEditPost, PermDeletePost,
		PermCreateGalleryItem, PermEditGalleryItem, PermDeleteGalleryItem,
	),
	RoleSchoolAdmin: setOf(
		PermManageSchool, PermManageUsers, PermManageSettings,
		PermCreatePost, PermEditPost, PermDeletePost,
		PermCreateGalleryItem, PermEditGalleryItem, PermDeleteGalleryItem,
	),
	RoleOperator: setOf(
		PermCreatePost, PermViewOwnPost, PermEditOwnPost, PermDeleteOwnPost,
		PermCreateGalleryItem, PermEditOwnGalleryItem, PermDeleteOwnGalleryItem,
	),
}

// ForRole returns the permission set for a role. The mapping is total:
// unknown roles get the empty set, never nil semantics that differ.
func ForRole(r Role) Set {
	if s, ok := rolePermissions[r]; ok {
		return s
	}
	return Set{}
}

func setOf(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// capability lookup tables per resource kind
var (
	createPerm = map[ResourceKind]Permission{
		KindPost:    PermCreatePost,
		KindGallery: PermCreateGalleryItem,
	}
	editPerm = map[ResourceKind]Permission{
		KindPost:    PermEditPost,
		KindGallery: PermEditGalleryItem,
	}
	editOwnPerm = map[ResourceKind]Permission{
		KindPost:    PermEditOwnPost,
		KindGallery: PermEditOwnGalleryItem,
	}
	deletePerm = map[ResourceKind]Permission{
		KindPost:    PermDeletePost,
		KindGallery: PermDeleteGalleryItem,
	}
	deleteOwnPerm = map[ResourceKind]Permission{
		KindPost:    PermDeleteOwnPost,
		KindGallery: PermDeleteOwnGalleryItem,
	}
)
