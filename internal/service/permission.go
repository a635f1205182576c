package service

import (
	"context"
	"sort"

	"github.com/iliyamo/admin-panel-api/internal/cache"
)

// PermissionService resolves the flat set of permission strings a user can
// reach through its roles.  The resolver itself never special-cases
// superusers; that bypass belongs to the authorization guard so this stays a
// pure graph query.
type PermissionService struct {
	store PermissionStore
	cache *cache.PermissionCache // nil disables caching
}

func NewPermissionService(store PermissionStore, c *cache.PermissionCache) *PermissionService {
	return &PermissionService{store: store, cache: c}
}

// UserPermissions returns the deduplicated permission strings granted to a
// user through enabled menus of its roles.  Results are cached per user; the
// cache is flushed by the handlers that mutate the role/menu graph.
func (s *PermissionService) UserPermissions(ctx context.Context, userID uint64) (map[string]struct{}, error) {
	if perms, ok := s.cache.Get(ctx, userID); ok {
		return toSet(perms), nil
	}
	perms, err := s.store.UserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := toSet(perms)
	s.cache.Set(ctx, userID, sortedKeys(set))
	return set, nil
}

// Check returns ErrPermissionDenied unless the user's resolved set contains
// the required permission string.  Matching is exact; there are no
// wildcards.
func (s *PermissionService) Check(ctx context.Context, userID uint64, required string) error {
	perms, err := s.UserPermissions(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := perms[required]; !ok {
		return ErrPermissionDenied
	}
	return nil
}

func toSet(perms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
