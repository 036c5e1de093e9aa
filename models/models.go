// models.go
// Defines the core data structures shared by the store, renderer and HTTP API.

package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// CheckStatus is the result recorded for one checklist item in one period.
type CheckStatus string

const (
	StatusUnset CheckStatus = ""
	StatusOK    CheckStatus = "ok"
	StatusIssue CheckStatus = "issue"
)

// MarshalJSON encodes an unset status as null, matching what clients store.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	if s == StatusUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts "ok", "issue" or null. Anything else decodes as unset.
func (s *CheckStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = StatusUnset
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = StatusUnset
		return nil
	}
	switch CheckStatus(raw) {
	case StatusOK, StatusIssue:
		*s = CheckStatus(raw)
	default:
		*s = StatusUnset
	}
	return nil
}

// ItemState holds the two period results and the note for a checklist item.
type ItemState struct {
	Week1 CheckStatus `json:"week1"`
	Week3 CheckStatus `json:"week3"`
	Note  string      `json:"note"`
}

// HasIssue reports whether either period was marked as an issue.
func (s ItemState) HasIssue() bool {
	return s.Week1 == StatusIssue || s.Week3 == StatusIssue
}

// ChecklistData maps a catalog item id to its state.
type ChecklistData map[string]ItemState

// Person is a driver or team lead, identified by name and NIP.
type Person struct {
	Name string `json:"name"`
	NIP  string `json:"nip"`
}

// VehicleInfo is the descriptive header of an inspection.
type VehicleInfo struct {
	PlateNumber string `json:"plateNumber"`
	VehicleType string `json:"vehicleType"`
	DriverName  string `json:"driverName"`
	DriverNIP   string `json:"driverNip"`
	KatimName   string `json:"katimName"`
	KatimNIP    string `json:"katimNip"`
	Odometer    string `json:"odometer"`
	FuelLevel   int    `json:"fuelLevel"`
	Month       string `json:"month"`
	Year        string `json:"year"`
}

// Report is one saved inspection record.
type Report struct {
	VehicleInfo

	ID             string        `json:"id"`
	Checks         ChecklistData `json:"checks"`
	AdditionalNote string        `json:"additionalNote"`
	AIAnalysis     string        `json:"aiAnalysis,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt,omitzero"`
	CreatedBy      string        `json:"createdBy,omitempty"`
}

// Check returns the state recorded for an item, or the zero state.
func (r *Report) Check(itemID string) ItemState {
	if r.Checks == nil {
		return ItemState{}
	}
	return r.Checks[itemID]
}

// Driver returns the driver as a Person.
func (r *Report) Driver() Person {
	return Person{Name: r.DriverName, NIP: r.DriverNIP}
}

// Katim returns the supervising team lead as a Person.
func (r *Report) Katim() Person {
	return Person{Name: r.KatimName, NIP: r.KatimNIP}
}

// Clone returns a deep copy so callers can't mutate store state.
func (r Report) Clone() Report {
	if r.Checks != nil {
		checks := make(ChecklistData, len(r.Checks))
		for k, v := range r.Checks {
			checks[k] = v
		}
		r.Checks = checks
	}
	return r
}

// Draft is the in-progress inspection form.
type Draft struct {
	VehicleInfo    VehicleInfo   `json:"vehicleInfo"`
	Checks         ChecklistData `json:"checks"`
	AdditionalNote string        `json:"additionalNote"`
	EditingID      string        `json:"editingId,omitempty"`
}

// UserRole defines the access level of a user.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleInspector UserRole = "INSPECTOR"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleInspector
}

// User represents a registered account.
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	NIP          string    `json:"nip,omitempty"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitzero"`
}

// Public returns a copy safe to send to clients.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
