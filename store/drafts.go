package store

import (
	"context"
	"errors"

	"fleetcheck/db"
	"fleetcheck/models"

	"github.com/apex/log"
)

// DraftStore persists the single in-progress inspection form.
type DraftStore struct {
	kv db.KV
}

func NewDraftStore(kv db.KV) *DraftStore {
	return &DraftStore{kv: kv}
}

// Get returns the stored draft. A missing or unreadable draft reports false.
func (d *DraftStore) Get(ctx context.Context) (models.Draft, bool) {
	var draft models.Draft
	err := db.GetJSON(ctx, d.kv, DraftKey, &draft)
	if errors.Is(err, db.ErrNotFound) {
		return models.Draft{}, false
	}
	if err != nil {
		log.WithError(err).Warn("⚠️  Stored draft is unreadable, ignoring it")
		return models.Draft{}, false
	}
	return draft, true
}

func (d *DraftStore) Save(ctx context.Context, draft models.Draft) error {
	draft.VehicleInfo.FuelLevel = clampFuel(draft.VehicleInfo.FuelLevel)
	return db.SetJSON(ctx, d.kv, DraftKey, draft)
}

func (d *DraftStore) Clear(ctx context.Context) error {
	return d.kv.Delete(ctx, DraftKey)
}
