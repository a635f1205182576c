// Package repository implements raw-SQL data access over MySQL.  Sentinel
// errors defined here let handlers and services distinguish failure kinds
// without inspecting driver-specific error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced row does not exist.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (username, email, role code, dict code, order number).
// Handlers translate it into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate value")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
