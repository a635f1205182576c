package service

import (
	"context"
	"time"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/queue"
)

// The services depend on these narrow store interfaces rather than the
// concrete repositories so tests can inject in-memory fakes.  The repository
// types satisfy them without adapters.

// UserStore is the slice of the credential store the auth service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
}

// TokenStore is the session ledger.  MarkUsed must be atomic: when two
// callers race on the same row, exactly one may observe true.
type TokenStore interface {
	Insert(ctx context.Context, userID uint64, token string, exp time.Time) error
	FindByToken(ctx context.Context, token string) (model.UserToken, error)
	MarkUsed(ctx context.Context, id uint64) (bool, error)
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// PermissionStore resolves the role→menu graph into permission strings.
type PermissionStore interface {
	UserPermissions(ctx context.Context, userID uint64) ([]string, error)
}

// MenuStore supplies the flat menu table in one read.
type MenuStore interface {
	ListAll(ctx context.Context) ([]model.Menu, error)
}

// RoleLinkStore exposes the user→role and role→menu association rows.
type RoleLinkStore interface {
	RoleIDsForUser(ctx context.Context, userID uint64) ([]uint64, error)
	MenuIDsForRoles(ctx context.Context, roleIDs []uint64) ([]uint64, error)
}

// EventPublisher pushes security events onto the audit queue.  Implemented
// by queue.Publisher; a nil publisher disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.SecurityEvent) error
}
