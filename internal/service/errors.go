// Package service implements the authentication lifecycle, permission
// resolution and menu-tree construction on top of the repository layer.
package service

import "errors"

// Authentication failure reasons.  The client-facing message stays generic,
// but the reason is kept on the error so logs and the event stream can tell
// a reuse-after-rotation attack apart from an ordinary bad token.
type AuthReason int

const (
	ReasonBadCredentials AuthReason = iota // unknown user or wrong password
	ReasonInvalidToken                     // bad signature, wrong kind, unrecognized
	ReasonExpiredToken                     // ledger row past its expiry
	ReasonTokenReused                      // rotated token presented again
	ReasonInactiveUser                     // account disabled or deleted
)

// AuthError terminates an authentication flow.  It is never retried.
type AuthError struct {
	Reason AuthReason
	msg    string
}

func (e *AuthError) Error() string { return e.msg }

func authErr(reason AuthReason, msg string) *AuthError {
	return &AuthError{Reason: reason, msg: msg}
}

// AuthReasonOf extracts the reason from an authentication error, or false
// when err is not an AuthError.
func AuthReasonOf(err error) (AuthReason, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Reason, true
	}
	return 0, false
}

// ErrPermissionDenied is returned when an authenticated user lacks the
// permission string required for an operation.
var ErrPermissionDenied = errors.New("permission denied")
