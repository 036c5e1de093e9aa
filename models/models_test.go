package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesFirstOccurrenceOrder(t *testing.T) {
	assert.Equal(t, []string{
		"A. RUANG MESIN",
		"B. EKSTERIOR & KAKI-KAKI",
		"C. INTERIOR",
		"D. DOKUMEN & PERALATAN",
	}, Categories())
}

func TestCatalogShape(t *testing.T) {
	items := ChecklistItems()
	assert.Len(t, items, 19)

	total := 0
	for _, cat := range Categories() {
		total += len(ItemsIn(cat))
	}
	assert.Equal(t, len(items), total)

	item, ok := LookupItem("int_2")
	require.True(t, ok)
	assert.Equal(t, "Klakson", item.Label)

	_, ok = LookupItem("nope")
	assert.False(t, ok)
}

func TestChecklistItemsReturnsCopy(t *testing.T) {
	items := ChecklistItems()
	items[0].Label = "changed"
	assert.Equal(t, "Oli Mesin (Level & Kondisi)", ChecklistItems()[0].Label)
}

func TestCheckStatusJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want CheckStatus
	}{
		{"ok", `"ok"`, StatusOK},
		{"issue", `"issue"`, StatusIssue},
		{"null", `null`, StatusUnset},
		{"empty", `""`, StatusUnset},
		{"unknown", `"broken"`, StatusUnset},
		{"number", `3`, StatusUnset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s CheckStatus
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s)
		})
	}

	out, err := json.Marshal(ItemState{Week1: StatusOK})
	require.NoError(t, err)
	assert.JSONEq(t, `{"week1":"ok","week3":null,"note":""}`, string(out))
}

func TestReportJSONFieldNames(t *testing.T) {
	raw := `{
		"id": "r1",
		"plateNumber": "BE 1234 XY",
		"vehicleType": "Innova",
		"driverName": "Robby",
		"driverNip": "1",
		"katimName": "Teguh",
		"katimNip": "2",
		"odometer": "12000",
		"fuelLevel": 60,
		"month": "Oktober",
		"year": "2026",
		"checks": {"eng_1": {"week1": "ok", "week3": "issue", "note": "rembes"}},
		"additionalNote": "servis",
		"createdAt": "2026-10-17T01:02:03Z"
	}`
	var r Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "BE 1234 XY", r.PlateNumber)
	assert.Equal(t, 60, r.FuelLevel)
	assert.True(t, r.Check("eng_1").HasIssue())
	assert.False(t, r.Check("eng_2").HasIssue())
	assert.Equal(t, Person{Name: "Teguh", NIP: "2"}, r.Katim())
}

func TestReportCloneIsDeep(t *testing.T) {
	r := Report{ID: "a", Checks: ChecklistData{"eng_1": {Week1: StatusOK}}}
	c := r.Clone()
	c.Checks["eng_1"] = ItemState{Week1: StatusIssue}
	assert.Equal(t, StatusOK, r.Checks["eng_1"].Week1)
}

func TestUserPublicDropsHash(t *testing.T) {
	u := User{Username: "admin", PasswordHash: "secret", Role: RoleAdmin}
	assert.Empty(t, u.Public().PasswordHash)
	assert.True(t, RoleInspector.Valid())
	assert.False(t, UserRole("ROOT").Valid())
}
