package model

import "time"

// RoleStatusEnabled / RoleStatusDisabled are the values of sys_roles.status.
const (
	RoleStatusEnabled  = 1
	RoleStatusDisabled = 0
)

// Role is a row in the `sys_roles` table.  Users and roles are linked
// many-to-many through `sys_user_roles`; roles and menus through
// `sys_role_menus`.  The link tables carry no payload and have no struct of
// their own, repositories write them directly.
type Role struct {
	ID          uint64    // sys_roles.id
	Name        string    // sys_roles.name (unique)
	Code        string    // sys_roles.code (unique)
	Description string    // sys_roles.description
	Status      int       // sys_roles.status
	CreatedAt   time.Time // sys_roles.created_at
	UpdatedAt   time.Time // sys_roles.updated_at
}
