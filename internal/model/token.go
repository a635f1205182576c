package model

import "time"

// UserToken models an entry in the `sys_user_tokens` table, the persistent
// ledger of issued refresh tokens.  One row is inserted per login and per
// refresh; a row is never updated except to flip IsUsed to true.  A used row
// is terminal: presenting its token again is the reuse-detection signal.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	Token     – the signed refresh token string (unique).
//	ExpiresAt – expiration timestamp of the token.
//	IsUsed    – false while the token is live; true after rotation or logout.
//	CreatedAt – timestamp of issuance.
type UserToken struct {
	ID        uint64    // sys_user_tokens.id
	UserID    uint64    // sys_user_tokens.user_id
	Token     string    // sys_user_tokens.token
	ExpiresAt time.Time // sys_user_tokens.expires_at
	IsUsed    bool      // sys_user_tokens.is_used
	CreatedAt time.Time // sys_user_tokens.created_at
}
