package service

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
)

type fakePermStore struct {
	permsByUser map[uint64][]string
	calls       int
}

func (s *fakePermStore) UserPermissions(_ context.Context, userID uint64) ([]string, error) {
	s.calls++
	return s.permsByUser[userID], nil
}

func TestUserPermissionsDeduplicates(t *testing.T) {
	c := qt.New(t)
	store := &fakePermStore{permsByUser: map[uint64][]string{
		1: {"system:user:list", "system:user:list", "system:role:list", ""},
	}}
	svc := NewPermissionService(store, nil)

	set, err := svc.UserPermissions(context.Background(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(set, qt.DeepEquals, map[string]struct{}{
		"system:user:list": {},
		"system:role:list": {},
	})
}

func TestUserPermissionsEmptyForUnknownUser(t *testing.T) {
	c := qt.New(t)
	svc := NewPermissionService(&fakePermStore{}, nil)

	set, err := svc.UserPermissions(context.Background(), 42)
	c.Assert(err, qt.IsNil)
	c.Assert(set, qt.HasLen, 0)
}

func TestCheckIsExactMatch(t *testing.T) {
	c := qt.New(t)
	store := &fakePermStore{permsByUser: map[uint64][]string{
		1: {"system:user:list"},
	}}
	svc := NewPermissionService(store, nil)

	c.Assert(svc.Check(context.Background(), 1, "system:user:list"), qt.IsNil)
	// No prefix or wildcard semantics.
	c.Assert(svc.Check(context.Background(), 1, "system:user"), qt.Equals, ErrPermissionDenied)
	c.Assert(svc.Check(context.Background(), 1, "system:user:delete"), qt.Equals, ErrPermissionDenied)
}

func TestCheckDeniesUserWithNoPermissions(t *testing.T) {
	c := qt.New(t)
	svc := NewPermissionService(&fakePermStore{}, nil)

	err := svc.Check(context.Background(), 7, "system:user:list")
	c.Assert(err, qt.Equals, ErrPermissionDenied)
}

// The resolver consults the store for every user; the superuser bypass lives
// in the request guard, not here.
func TestResolverHasNoSuperuserShortcut(t *testing.T) {
	c := qt.New(t)
	store := &fakePermStore{}
	svc := NewPermissionService(store, nil)

	_, err := svc.UserPermissions(context.Background(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(store.calls, qt.Equals, 1)
}
