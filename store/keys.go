// Package store holds the explicit, injectable stores that replace the
// client's ambient local-storage globals: reports, drafts, people directories,
// registered users and the active sync id.
package store

import "errors"

// Storage keys. Each value is an independent JSON document.
const (
	ReportsKey       = "fleetcheck_reports_v1"
	DraftKey         = "fleetcheck_draft_v1"
	CustomDriversKey = "fleetcheck_custom_drivers_v1"
	CustomKatimsKey  = "fleetcheck_custom_katims_v1"
	UsersKey         = "fleetcheck_users_v1"
	SyncIDKey        = "fleetcheck_sync_id_v2"

	// NamespacePrefix prefixes the keys of the self-hosted remote namespace.
	NamespacePrefix = "remote:"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrNoSyncID          = errors.New("no sync id configured")
	ErrInvalidSyncID     = errors.New("invalid sync id")
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrUserExists        = errors.New("username already taken")
	ErrRegistrationOff   = errors.New("registration is disabled")
)
