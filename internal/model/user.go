package model

import "time"

// User represents an operator account as stored in the `sys_users` table.
// The json tags are omitted because these structs are used by the repository
// layer; handlers define separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password, never exposed.
//	IsActive     – whether the account may authenticate.  A disabled user is
//	               rejected everywhere it is loaded, not only at login.
//	IsSuperuser  – superusers bypass permission checks and see every menu.
//	LastLoginAt  – refreshed on every successful login (nullable).
//	Remark       – free-form note shown in the admin list.
type User struct {
	ID           uint64     // sys_users.id
	Username     string     // sys_users.username
	Email        string     // sys_users.email
	PasswordHash string     // sys_users.password_hash
	IsActive     bool       // sys_users.is_active
	IsSuperuser  bool       // sys_users.is_superuser
	LastLoginAt  *time.Time // sys_users.last_login_at (nullable)
	Remark       string     // sys_users.remark
	CreatedAt    time.Time  // sys_users.created_at
	UpdatedAt    time.Time  // sys_users.updated_at
}
