package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fleetcheck/analysis"
	"fleetcheck/db"
	"fleetcheck/models"
	"fleetcheck/remote"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// Remote is the shared namespace the collection is synchronised with.
type Remote interface {
	Fetch(ctx context.Context, syncID string) ([]byte, error)
	Store(ctx context.Context, syncID string, payload []byte) error
}

// Options carries the optional collaborators of a ReportStore.
type Options struct {
	Remote   Remote
	Analyzer analysis.Analyzer
	People   *PeopleStore
	Drafts   *DraftStore
	Now      func() time.Time
	NewID    func() string
}

// ReportStore owns the local report collection and reconciles it with the
// remote namespace. Local writes happen under mu; remote calls never do.
// Pushes are serialised by pushMu and each one snapshots the collection only
// once it holds that lock, so a slow push can never overwrite a newer one.
type ReportStore struct {
	kv       db.KV
	remote   Remote
	analyzer analysis.Analyzer
	people   *PeopleStore
	drafts   *DraftStore
	now      func() time.Time
	newID    func() string

	mu      sync.RWMutex
	reports []models.Report
	syncID  string

	pushMu sync.Mutex
}

// NewReportStore creates an empty store; call Load to read persisted state.
func NewReportStore(kv db.KV, opts Options) *ReportStore {
	s := &ReportStore{
		kv:       kv,
		remote:   opts.Remote,
		analyzer: opts.Analyzer,
		people:   opts.People,
		drafts:   opts.Drafts,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Load reads the persisted collection and sync id. A malformed collection is
// logged and replaced by an empty one; only a failing backend is an error.
func (s *ReportStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = nil
	raw, err := s.kv.Get(ctx, ReportsKey)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to load reports: %w", err)
	default:
		var reports []models.Report
		if err := json.Unmarshal(raw, &reports); err != nil {
			log.WithError(err).Warn("⚠️  Stored report collection is malformed, starting empty")
		} else {
			s.reports = reports
		}
	}

	s.syncID = ""
	raw, err = s.kv.Get(ctx, SyncIDKey)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to load sync id: %w", err)
	default:
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			log.WithError(err).Warn("⚠️  Stored sync id is malformed, ignoring it")
		} else {
			s.syncID = id
		}
	}

	log.WithFields(log.Fields{"reports": len(s.reports), "sync_id": s.syncID}).Info("📂 Report store loaded")
	return nil
}

// Reports returns a copy of the collection in stored order.
func (s *ReportStore) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len is the number of reports in the collection.
func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// Get returns one report by id.
func (s *ReportStore) Get(id string) (models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.reports[i].Clone(), nil
	}
	return models.Report{}, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

// Search matches plate number, vehicle type or driver name, case-insensitively.
// An empty query returns everything.
func (s *ReportStore) Search(query string) []models.Report {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.Reports()
	if q == "" {
		return all
	}
	var out []models.Report
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.PlateNumber), q) ||
			strings.Contains(strings.ToLower(r.VehicleType), q) ||
			strings.Contains(strings.ToLower(r.DriverName), q) {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks the fields required before a report may be saved.
func Validate(r *models.Report) error {
	var missing []string
	if strings.TrimSpace(r.PlateNumber) == "" {
		missing = append(missing, "plateNumber")
	}
	if strings.TrimSpace(r.DriverName) == "" {
		missing = append(missing, "driverName")
	}
	if strings.TrimSpace(r.DriverNIP) == "" {
		missing = append(missing, "driverNip")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// SaveResult describes what happened on a save. Warnings collect the
// best-effort steps that failed without aborting it.
type SaveResult struct {
	Report   models.Report `json:"report"`
	Created  bool          `json:"created"`
	Synced   bool          `json:"synced"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Save upserts a report by id. A new report gets an id (unless the client
// supplied one) and a creation time; an edit keeps the original creation time
// and author and replaces everything else. The analysis, people, draft and
// push steps never fail the save.
func (s *ReportStore) Save(ctx context.Context, in models.Report, userID string) (*SaveResult, error) {
	if err := Validate(&in); err != nil {
		return nil, err
	}

	report := in.Clone()
	report.ID = strings.TrimSpace(report.ID)
	report.FuelLevel = clampFuel(report.FuelLevel)
	report.AIAnalysis = analysis.AnalyzeOrFallback(ctx, s.analyzer, &report)
	now := s.now().UTC()
	result := &SaveResult{}

	s.mu.Lock()
	idx := -1
	if report.ID != "" {
		idx = s.indexLocked(report.ID)
	}
	if idx >= 0 {
		existing := s.reports[idx]
		report.CreatedAt = existing.CreatedAt
		report.CreatedBy = existing.CreatedBy
		report.UpdatedAt = now
		s.reports[idx] = report
	} else {
		if report.ID == "" {
			report.ID = s.newID()
		}
		report.CreatedAt = now
		report.UpdatedAt = now
		report.CreatedBy = userID
		s.reports = append([]models.Report{report}, s.reports...)
		result.Created = true
	}
	snapshot := s.snapshotLocked()
	if err := s.persistLocked(ctx, snapshot); err != nil {
		log.WithError(err).WithField("id", report.ID).Error("❌ Failed to persist reports")
		result.Warnings = append(result.Warnings, "report kept in memory but local persistence failed")
	}
	syncID := s.syncID
	s.mu.Unlock()

	result.Report = report.Clone()
	log.WithFields(log.Fields{"id": report.ID, "plate": report.PlateNumber, "created": result.Created}).Info("💾 Report saved")

	if s.people != nil {
		if err := s.people.Remember(ctx, report.Driver(), report.Katim()); err != nil {
			log.WithError(err).Warn("Failed to remember people")
			result.Warnings = append(result.Warnings, "people directory not updated")
		}
	}
	if s.drafts != nil {
		if err := s.drafts.Clear(ctx); err != nil {
			log.WithError(err).Warn("Failed to clear draft")
		}
	}

	if syncID != "" && s.remote != nil {
		if err := s.push(ctx, syncID); err != nil {
			result.Warnings = append(result.Warnings, "saved locally, cloud sync failed")
		} else {
			result.Synced = true
		}
	}
	return result, nil
}

// DeleteResult describes what happened on a delete.
type DeleteResult struct {
	Deleted  bool     `json:"deleted"`
	Synced   bool     `json:"synced"`
	Warnings []string `json:"warnings,omitempty"`
}

// Delete removes a report by id. An unknown id is a no-op.
func (s *ReportStore) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	result := &DeleteResult{}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return result, nil
	}
	s.reports = append(s.reports[:idx:idx], s.reports[idx+1:]...)
	snapshot := s.snapshotLocked()
	if err := s.persistLocked(ctx, snapshot); err != nil {
		log.WithError(err).WithField("id", id).Error("❌ Failed to persist reports")
		result.Warnings = append(result.Warnings, "report removed in memory but local persistence failed")
	}
	syncID := s.syncID
	s.mu.Unlock()

	result.Deleted = true
	log.WithField("id", id).Info("🗑️  Report deleted")

	if s.drafts != nil {
		if d, ok := s.drafts.Get(ctx); ok && d.EditingID == id {
			if err := s.drafts.Clear(ctx); err != nil {
				log.WithError(err).Warn("Failed to clear draft")
			}
		}
	}

	if syncID != "" && s.remote != nil {
		if err := s.push(ctx, syncID); err != nil {
			result.Warnings = append(result.Warnings, "deleted locally, cloud sync failed")
		} else {
			result.Synced = true
		}
	}
	return result, nil
}

// PullStatus summarises the outcome of a pull.
type PullStatus string

const (
	PullMerged      PullStatus = "merged"
	PullEmpty       PullStatus = "empty"
	PullIgnored     PullStatus = "ignored"
	PullUnavailable PullStatus = "unavailable"
)

// PullResult reports how many records arrived and the resulting size.
type PullResult struct {
	Status   PullStatus `json:"status"`
	Received int        `json:"received"`
	Total    int        `json:"total"`
}

// Pull fetches the collection stored under syncID and union-merges it into
// the local one. An absent or malformed remote value leaves local data
// untouched, as does a non-2xx answer. A transport failure also leaves it
// untouched and returns an error wrapping ErrRemoteUnavailable, which callers
// treat as transient.
func (s *ReportStore) Pull(ctx context.Context, syncID string) (PullResult, error) {
	if syncID == "" {
		syncID = s.SyncID()
	}
	if syncID == "" {
		return PullResult{Total: s.Len()}, ErrNoSyncID
	}
	if s.remote == nil {
		return PullResult{Status: PullUnavailable, Total: s.Len()}, fmt.Errorf("%w: no remote configured", ErrRemoteUnavailable)
	}

	raw, err := s.remote.Fetch(ctx, syncID)
	if errors.Is(err, remote.ErrNotFound) {
		log.WithField("sync_id", syncID).Info("☁️  Nothing stored remotely yet")
		return PullResult{Status: PullEmpty, Total: s.Len()}, nil
	}
	if errors.Is(err, remote.ErrUnexpectedStatus) {
		log.WithError(err).WithField("sync_id", syncID).Warn("⚠️  Remote rejected pull, keeping local data")
		return PullResult{Status: PullIgnored, Total: s.Len()}, nil
	}
	if err != nil {
		log.WithError(err).WithField("sync_id", syncID).Warn("⚠️  Cloud pull failed")
		return PullResult{Status: PullUnavailable, Total: s.Len()}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	incoming, ok := decodeCollection(raw)
	if !ok {
		log.WithField("sync_id", syncID).Warn("⚠️  Remote value is not a report list, ignoring it")
		return PullResult{Status: PullIgnored, Total: s.Len()}, nil
	}

	s.mu.Lock()
	s.reports = UnionMerge(s.reports, incoming)
	snapshot := s.snapshotLocked()
	if err := s.persistLocked(ctx, snapshot); err != nil {
		log.WithError(err).Error("❌ Failed to persist merged reports")
	}
	s.mu.Unlock()

	log.WithFields(log.Fields{"sync_id": syncID, "received": len(incoming), "total": len(snapshot)}).Info("📥 Cloud pull merged")
	return PullResult{Status: PullMerged, Received: len(incoming), Total: len(snapshot)}, nil
}

// Push overwrites the remote value under syncID with the whole local
// collection.
func (s *ReportStore) Push(ctx context.Context, syncID string) error {
	if syncID == "" {
		syncID = s.SyncID()
	}
	if syncID == "" {
		return ErrNoSyncID
	}
	if s.remote == nil {
		return fmt.Errorf("%w: no remote configured", ErrRemoteUnavailable)
	}
	return s.push(ctx, syncID)
}

func (s *ReportStore) push(ctx context.Context, syncID string) error {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	reports := s.Reports()
	payload, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}
	if err := s.remote.Store(ctx, syncID, payload); err != nil {
		log.WithError(err).WithField("sync_id", syncID).Warn("⚠️  Cloud push failed")
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	log.WithFields(log.Fields{"sync_id": syncID, "reports": len(reports)}).Info("📤 Cloud push complete")
	return nil
}

func clampFuel(level int) int {
	return min(max(level, 0), 100)
}

// decodeCollection accepts only a JSON array of reports.
func decodeCollection(raw []byte) ([]models.Report, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var reports []models.Report
	if err := json.Unmarshal(trimmed, &reports); err != nil {
		return nil, false
	}
	return reports, true
}

func (s *ReportStore) indexLocked(id string) int {
	for i := range s.reports {
		if s.reports[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ReportStore) snapshotLocked() []models.Report {
	out := make([]models.Report, len(s.reports))
	for i, r := range s.reports {
		out[i] = r.Clone()
	}
	return out
}

func (s *ReportStore) persistLocked(ctx context.Context, reports []models.Report) error {
	return db.SetJSON(ctx, s.kv, ReportsKey, reports)
}
