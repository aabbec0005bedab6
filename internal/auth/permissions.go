package auth

// Permission names understood by HasPermission.
const (
	PermCreate  = "create"
	PermEdit    = "edit"
	PermDelete  = "delete"
	PermPublish = "publish"
	PermViewAll = "viewAll"
)

// ResolvePermissions maps a role to its fixed capability set. Pure lookup:
// permissions are fully determined by the role, with no per-user overrides.
func ResolvePermissions(role Role) PermissionSet {
	switch role {
	case RoleAdmin:
		return PermissionSet{Create: true, Edit: true, Delete: true, Publish: true, ViewAll: true}
	case RoleAgent:
		return PermissionSet{Create: true, Edit: true, Publish: true}
	default:
		return PermissionSet{}
	}
}

// Has reports whether the named permission is granted. Unknown names are
// never granted.
func (p PermissionSet) Has(name string) bool {
	switch name {
	case PermCreate:
		return p.Create
	case PermEdit:
		return p.Edit
	case PermDelete:
		return p.Delete
	case PermPublish:
		return p.Publish
	case PermViewAll:
		return p.ViewAll
	default:
		return false
	}
}
