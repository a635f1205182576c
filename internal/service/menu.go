package service

import (
	"context"
	"sort"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

// MenuService builds the hierarchical menu view for a user.  The build is a
// one-shot, read-only, in-memory pass over the flat menu table: no queries
// are issued per node and no shared rows are ever mutated.
type MenuService struct {
	menus MenuStore
	links RoleLinkStore
}

func NewMenuService(menus MenuStore, links RoleLinkStore) *MenuService {
	return &MenuService{menus: menus, links: links}
}

// TreeFor returns the menu forest visible to a user.  Superusers see every
// menu.  Regular users see the menus reachable through their roles plus
// every ancestor of those menus, so a deeply nested authorized leaf still
// renders with its full containing path even when the intermediate
// directories grant no permission of their own.  Status is not filtered
// here; hiding disabled menus is a display concern.
func (s *MenuService) TreeFor(ctx context.Context, user model.User) ([]*model.MenuNode, error) {
	all, err := s.menus.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var include map[uint64]bool
	if user.IsSuperuser {
		include = make(map[uint64]bool, len(all))
		for _, m := range all {
			include[m.ID] = true
		}
	} else {
		roleIDs, err := s.links.RoleIDsForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(roleIDs) == 0 {
			return []*model.MenuNode{}, nil
		}
		allowed, err := s.links.MenuIDsForRoles(ctx, roleIDs)
		if err != nil {
			return nil, err
		}
		include = closeAncestors(all, allowed)
	}

	return buildForest(all, include), nil
}

// closeAncestors expands the directly allowed menu ids with every ancestor
// reachable via parent pointers.  A parent_id referencing a missing row ends
// the ascent; the orphan simply becomes a root.
func closeAncestors(all []model.Menu, allowed []uint64) map[uint64]bool {
	byID := make(map[uint64]model.Menu, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}
	allowedSet := make(map[uint64]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}

	include := make(map[uint64]bool)
	for _, m := range all {
		if !allowedSet[m.ID] {
			continue
		}
		cur, ok := m, true
		for ok {
			if include[cur.ID] {
				break // ancestors above are already in
			}
			include[cur.ID] = true
			cur, ok = byID[cur.ParentID]
		}
	}
	return include
}

// buildForest assembles fresh MenuNode values for the included ids, links
// children to parents, and sorts each sibling list by Sort.  A node whose
// parent is absent from the include set is promoted to root.  Sorting is
// stable so rows with equal Sort keep their input order.
func buildForest(all []model.Menu, include map[uint64]bool) []*model.MenuNode {
	nodes := make(map[uint64]*model.MenuNode, len(include))
	ordered := make([]*model.MenuNode, 0, len(include))
	for _, m := range all {
		if !include[m.ID] {
			continue
		}
		n := &model.MenuNode{Menu: m}
		nodes[m.ID] = n
		ordered = append(ordered, n)
	}

	roots := make([]*model.MenuNode, 0)
	for _, n := range ordered {
		if parent, ok := nodes[n.ParentID]; ok && n.ParentID != n.ID {
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
	}

	for _, n := range ordered {
		sortNodes(n.Children)
	}
	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*model.MenuNode) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Sort < nodes[j].Sort })
}
