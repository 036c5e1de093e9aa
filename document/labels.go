package document

import (
	"fmt"
	"time"

	"fleetcheck/models"
)

// FuelLabel maps a fuel percentage to the gauge label printed on the form.
// Values outside 0..100 are clamped.
func FuelLabel(level int) string {
	switch {
	case level <= 0:
		return "Kosong"
	case level <= 25:
		return "1/4"
	case level <= 50:
		return "1/2"
	case level <= 75:
		return "3/4"
	default:
		return "Penuh"
	}
}

// StatusLabel renders one result cell.
func StatusLabel(s models.CheckStatus) string {
	switch s {
	case models.StatusOK:
		return "Baik"
	case models.StatusIssue:
		return "Rusak"
	default:
		return "-"
	}
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// WIB is Western Indonesia Time; fixed so rendering doesn't depend on tzdata.
var WIB = time.FixedZone("WIB", 7*60*60)

// MonthName returns the Indonesian name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return indonesianMonths[m-1]
}

// LongDate formats t as "17 Oktober 2026" in WIB.
func LongDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(WIB)
	return fmt.Sprintf("%d %s %d", t.Day(), MonthName(t.Month()), t.Year())
}

// CountIssues returns how many catalog items have an issue in either week.
func CountIssues(r *models.Report) int {
	n := 0
	for _, item := range models.ChecklistItems() {
		if r.Check(item.ID).HasIssue() {
			n++
		}
	}
	return n
}
