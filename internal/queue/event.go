// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// Security event types published on the auth.security queue.
const (
	EventLogin         = "auth.login"
	EventLogout        = "auth.logout"
	EventTokenReuse    = "auth.token_reuse"
	EventTokensRevoked = "auth.tokens_revoked"
)

// SecurityEvent is published for authentication lifecycle events.  Reuse
// detections ride the same queue as ordinary logins so downstream consumers
// can correlate them, but carry a distinct Type for alerting.  The client
// never sees this detail; it exists for incident response.
type SecurityEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username,omitempty"`
	TokenID    uint64 `json:"token_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"` // RFC3339 UTC
}
