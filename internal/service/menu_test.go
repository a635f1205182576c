package service

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type fakeMenuStore struct {
	menus []model.Menu
}

func (s *fakeMenuStore) ListAll(_ context.Context) ([]model.Menu, error) {
	return s.menus, nil
}

type fakeLinkStore struct {
	rolesByUser map[uint64][]uint64
	menusByRole map[uint64][]uint64
}

func (s *fakeLinkStore) RoleIDsForUser(_ context.Context, userID uint64) ([]uint64, error) {
	return s.rolesByUser[userID], nil
}

func (s *fakeLinkStore) MenuIDsForRoles(_ context.Context, roleIDs []uint64) ([]uint64, error) {
	seen := make(map[uint64]bool)
	var out []uint64
	for _, rid := range roleIDs {
		for _, mid := range s.menusByRole[rid] {
			if !seen[mid] {
				seen[mid] = true
				out = append(out, mid)
			}
		}
	}
	return out, nil
}

// menuFixture is a two-level forest:
//
//	1 System (sort 2)
//	  3 Users (sort 1)
//	  4 Roles (sort 2)
//	    7 Assign (sort 1)
//	2 Content (sort 1)
//	  5 News (sort 1)
//	6 Dangling (parent 99, absent)
func menuFixture() []model.Menu {
	return []model.Menu{
		{ID: 1, ParentID: 0, Title: "System", Sort: 2},
		{ID: 2, ParentID: 0, Title: "Content", Sort: 1},
		{ID: 3, ParentID: 1, Title: "Users", Sort: 1},
		{ID: 4, ParentID: 1, Title: "Roles", Sort: 2},
		{ID: 5, ParentID: 2, Title: "News", Sort: 1},
		{ID: 6, ParentID: 99, Title: "Dangling", Sort: 3},
		{ID: 7, ParentID: 4, Title: "Assign", Sort: 1},
	}
}

func titles(nodes []*model.MenuNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

func TestTreeForSuperuserSeesEverything(t *testing.T) {
	c := qt.New(t)
	svc := NewMenuService(&fakeMenuStore{menus: menuFixture()}, &fakeLinkStore{})

	tree, err := svc.TreeFor(context.Background(), model.User{ID: 1, IsSuperuser: true})
	c.Assert(err, qt.IsNil)

	// Roots ordered by Sort; the dangling row is promoted to root.
	c.Assert(titles(tree), qt.DeepEquals, []string{"Content", "System", "Dangling"})

	system := tree[1]
	c.Assert(titles(system.Children), qt.DeepEquals, []string{"Users", "Roles"})
	c.Assert(titles(system.Children[1].Children), qt.DeepEquals, []string{"Assign"})
}

func TestTreeForIncludesAncestorsOfGrantedLeaf(t *testing.T) {
	c := qt.New(t)
	links := &fakeLinkStore{
		rolesByUser: map[uint64][]uint64{10: {100}},
		menusByRole: map[uint64][]uint64{100: {7}},
	}
	svc := NewMenuService(&fakeMenuStore{menus: menuFixture()}, links)

	tree, err := svc.TreeFor(context.Background(), model.User{ID: 10})
	c.Assert(err, qt.IsNil)

	// Only the path to the granted leaf: System > Roles > Assign.  The
	// intermediate directories appear even though no role grants them.
	c.Assert(titles(tree), qt.DeepEquals, []string{"System"})
	c.Assert(titles(tree[0].Children), qt.DeepEquals, []string{"Roles"})
	c.Assert(titles(tree[0].Children[0].Children), qt.DeepEquals, []string{"Assign"})
}

func TestTreeForMergesGrantsAcrossRoles(t *testing.T) {
	c := qt.New(t)
	links := &fakeLinkStore{
		rolesByUser: map[uint64][]uint64{10: {100, 200}},
		menusByRole: map[uint64][]uint64{
			100: {3},
			200: {5},
		},
	}
	svc := NewMenuService(&fakeMenuStore{menus: menuFixture()}, links)

	tree, err := svc.TreeFor(context.Background(), model.User{ID: 10})
	c.Assert(err, qt.IsNil)
	c.Assert(titles(tree), qt.DeepEquals, []string{"Content", "System"})
	c.Assert(titles(tree[0].Children), qt.DeepEquals, []string{"News"})
	c.Assert(titles(tree[1].Children), qt.DeepEquals, []string{"Users"})
}

func TestTreeForUserWithoutRolesIsEmpty(t *testing.T) {
	c := qt.New(t)
	svc := NewMenuService(&fakeMenuStore{menus: menuFixture()}, &fakeLinkStore{})

	tree, err := svc.TreeFor(context.Background(), model.User{ID: 10})
	c.Assert(err, qt.IsNil)
	c.Assert(tree, qt.IsNotNil)
	c.Assert(tree, qt.HasLen, 0)
}

func TestTreeForToleratesDanglingParent(t *testing.T) {
	c := qt.New(t)
	links := &fakeLinkStore{
		rolesByUser: map[uint64][]uint64{10: {100}},
		menusByRole: map[uint64][]uint64{100: {6}},
	}
	svc := NewMenuService(&fakeMenuStore{menus: menuFixture()}, links)

	tree, err := svc.TreeFor(context.Background(), model.User{ID: 10})
	c.Assert(err, qt.IsNil)
	c.Assert(titles(tree), qt.DeepEquals, []string{"Dangling"})
	c.Assert(tree[0].Children, qt.HasLen, 0)
}

func TestTreeForDoesNotShareNodesAcrossCalls(t *testing.T) {
	c := qt.New(t)
	svc := NewMenuService(&fakeMenuStore{menus: menuFixture()}, &fakeLinkStore{})
	user := model.User{ID: 1, IsSuperuser: true}

	first, err := svc.TreeFor(context.Background(), user)
	c.Assert(err, qt.IsNil)
	first[0].Title = "mutated"
	first[1].Children = nil

	second, err := svc.TreeFor(context.Background(), user)
	c.Assert(err, qt.IsNil)
	c.Assert(second[0].Title, qt.Equals, "Content")
	c.Assert(titles(second[1].Children), qt.DeepEquals, []string{"Users", "Roles"})
}

func TestTreeForKeepsDisabledMenus(t *testing.T) {
	c := qt.New(t)
	menus := menuFixture()
	menus[1].Status = model.MenuStatusDisabled // Content
	svc := NewMenuService(&fakeMenuStore{menus: menus}, &fakeLinkStore{})

	tree, err := svc.TreeFor(context.Background(), model.User{ID: 1, IsSuperuser: true})
	c.Assert(err, qt.IsNil)
	c.Assert(titles(tree), qt.DeepEquals, []string{"Content", "System", "Dangling"})
}
