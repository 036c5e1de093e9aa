package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fleetcheck/db"
	"fleetcheck/document"

	"github.com/apex/log"
)

const maxSyncIDLength = 100

// NormalizeSyncID trims an id and rejects values that cannot be used as a
// single path segment. Case is kept: a share link addresses the namespace
// exactly as written.
func NormalizeSyncID(id string) (string, error) {
	id = strings.TrimSpace(id)
	switch {
	case id == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidSyncID)
	case len(id) > maxSyncIDLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidSyncID, maxSyncIDLength)
	case strings.ContainsAny(id, "/?#"):
		return "", fmt.Errorf("%w: must not contain '/', '?' or '#'", ErrInvalidSyncID)
	}
	return id, nil
}

// DefaultSyncID is the id used when neither a link nor storage provides one,
// e.g. BPMP-OKTOBER-2026.
func DefaultSyncID(now time.Time) string {
	return "BPMP-" + strings.ToUpper(document.MonthName(now.Month())) + "-" + strconv.Itoa(now.Year())
}

// SyncID returns the active sync id, empty when none is set.
func (s *ReportStore) SyncID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncID
}

// SetSyncID normalizes and persists a new active sync id.
func (s *ReportStore) SetSyncID(ctx context.Context, id string) (string, error) {
	id, err := NormalizeSyncID(id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := db.SetJSON(ctx, s.kv, SyncIDKey, id); err != nil {
		return "", fmt.Errorf("failed to persist sync id: %w", err)
	}
	s.syncID = id
	log.WithField("sync_id", id).Info("🔑 Sync id set")
	return id, nil
}

// ResolveSyncID picks the active id at startup: an id from a share link wins
// and is persisted, then the stored id, then DefaultSyncID.
func (s *ReportStore) ResolveSyncID(ctx context.Context, fromLink string) (string, error) {
	if strings.TrimSpace(fromLink) != "" {
		return s.SetSyncID(ctx, fromLink)
	}
	if id := s.SyncID(); id != "" {
		return id, nil
	}
	return s.SetSyncID(ctx, DefaultSyncID(s.now().In(document.WIB)))
}

// ShareLink appends the active sync id to base as the sync query parameter.
func (s *ReportStore) ShareLink(base string) (string, error) {
	id := s.SyncID()
	if id == "" {
		return "", ErrNoSyncID
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("sync", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
