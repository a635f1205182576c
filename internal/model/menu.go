package model

import "time"

// Menu types stored in sys_menus.menu_type.
const (
	MenuTypeDirectory = 1
	MenuTypeMenu      = 2
	MenuTypeButton    = 3
)

// Menu status values stored in sys_menus.status.
const (
	MenuStatusEnabled  = 1
	MenuStatusDisabled = 0
)

// Menu is a row in the `sys_menus` table.  Menus form a forest through
// ParentID (0 means root).  When Permission is non-empty the node grants that
// capability string to every role assigned to it.
type Menu struct {
	ID         uint64    // sys_menus.id
	ParentID   uint64    // sys_menus.parent_id (0 = root)
	Title      string    // sys_menus.title
	Name       string    // sys_menus.name
	Path       string    // sys_menus.path
	Component  string    // sys_menus.component
	Icon       string    // sys_menus.icon
	Sort       int       // sys_menus.sort (sibling ordering key)
	MenuType   int       // sys_menus.menu_type
	Permission string    // sys_menus.permission ("" = grants nothing)
	Status     int       // sys_menus.status
	IsVisible  bool      // sys_menus.is_visible
	CreatedAt  time.Time // sys_menus.created_at
	UpdatedAt  time.Time // sys_menus.updated_at
}

// MenuNode is a Menu plus its resolved children, produced by the tree
// builder.  Nodes are freshly allocated on every build so concurrent
// requests never share mutable state.
type MenuNode struct {
	Menu
	Children []*MenuNode `json:"children,omitempty"`
}
