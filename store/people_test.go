package store

import (
	"context"
	"testing"

	"fleetcheck/db"
	"fleetcheck/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeopleStoreRemember(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryKV()
	p := NewPeopleStore(kv)
	require.NoError(t, p.Load(ctx))

	assert.Equal(t, models.PredefinedDrivers, p.Drivers())
	assert.Equal(t, models.PredefinedKatims, p.Katims())

	require.NoError(t, p.Remember(ctx, models.Person{Name: " Andi ", NIP: "1"}, models.Person{Name: "Budi", NIP: "2"}))
	require.NoError(t, p.Remember(ctx, models.Person{Name: "Andi", NIP: "1"}, models.Person{}))
	require.NoError(t, p.Remember(ctx, models.PredefinedDrivers[0], models.PredefinedKatims[0]))

	drivers := p.Drivers()
	require.Len(t, drivers, 2)
	assert.Equal(t, models.Person{Name: "Andi", NIP: "1"}, drivers[1])

	// same name with a corrected NIP is a distinct entry
	require.NoError(t, p.Remember(ctx, models.Person{Name: "Andi", NIP: "199001012020121001"}, models.Person{}))
	drivers = p.Drivers()
	require.Len(t, drivers, 3)
	assert.Equal(t, models.Person{Name: "Andi", NIP: "199001012020121001"}, drivers[2])
	assert.Equal(t, []models.Person{models.PredefinedKatims[0], {Name: "Budi", NIP: "2"}}, p.Katims())

	reloaded := NewPeopleStore(kv)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, drivers, reloaded.Drivers())
}

func TestPeopleStoreIgnoresMalformedList(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, CustomDriversKey, []byte("oops")))

	p := NewPeopleStore(kv)
	require.NoError(t, p.Load(ctx))
	assert.Equal(t, models.PredefinedDrivers, p.Drivers())
}

func TestPeopleStoreReturnsCopies(t *testing.T) {
	p := NewPeopleStore(db.NewMemoryKV())
	drivers := p.Drivers()
	drivers[0].Name = "changed"
	assert.Equal(t, "Robby Kurnia", p.Drivers()[0].Name)
	assert.Equal(t, "Robby Kurnia", models.PredefinedDrivers[0].Name)
}

func TestDraftStore(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryKV()
	d := NewDraftStore(kv)

	_, ok := d.Get(ctx)
	assert.False(t, ok)

	draft := models.Draft{
		VehicleInfo:    models.VehicleInfo{PlateNumber: "BE 1", FuelLevel: -10},
		Checks:         models.ChecklistData{"doc_1": {Week1: models.StatusOK}},
		AdditionalNote: "wip",
		EditingID:      "abc",
	}
	require.NoError(t, d.Save(ctx, draft))

	got, ok := d.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "BE 1", got.VehicleInfo.PlateNumber)
	assert.Equal(t, 0, got.VehicleInfo.FuelLevel)
	assert.Equal(t, "abc", got.EditingID)
	assert.Equal(t, models.StatusOK, got.Checks["doc_1"].Week1)

	require.NoError(t, d.Clear(ctx))
	_, ok = d.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, DraftKey, []byte("{")))
	_, ok = d.Get(ctx)
	assert.False(t, ok)
}
