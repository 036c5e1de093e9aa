// Package analysis produces the optional natural-language health summary that
// is attached to a report when it is saved.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleetcheck/models"

	"github.com/apex/log"
)

// ErrUnavailable is returned when no analysis backend is configured.
var ErrUnavailable = errors.New("analysis unavailable")

// FallbackText replaces the analysis whenever it can't be produced.
const FallbackText = "Laporan berhasil disimpan. (Analisis AI gagal dimuat saat ini)."

// Analyzer turns a report into a short health assessment.
type Analyzer interface {
	Analyze(ctx context.Context, report *models.Report) (string, error)
}

// AnalyzeOrFallback never fails: any error, including a nil analyzer, yields
// FallbackText.
func AnalyzeOrFallback(ctx context.Context, a Analyzer, report *models.Report) string {
	if a == nil {
		return FallbackText
	}
	text, err := a.Analyze(ctx, report)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			log.WithError(err).WithField("plate", report.PlateNumber).Warn("AI analysis failed")
		}
		return FallbackText
	}
	if strings.TrimSpace(text) == "" {
		return FallbackText
	}
	return text
}

// Issues lists the catalog items marked as an issue, with the affected weeks.
func Issues(report *models.Report) []string {
	var issues []string
	for _, item := range models.ChecklistItems() {
		check := report.Check(item.ID)
		if !check.HasIssue() {
			continue
		}
		var weeks []string
		if check.Week1 == models.StatusIssue {
			weeks = append(weeks, "1")
		}
		if check.Week3 == models.StatusIssue {
			weeks = append(weeks, "3")
		}
		issues = append(issues, fmt.Sprintf("%s (Masalah di Minggu: %s)", item.Label, strings.Join(weeks, " & ")))
	}
	return issues
}

// BuildPrompt renders the instruction sent to the text-generation model.
func BuildPrompt(report *models.Report) string {
	issues := "Tidak ada masalah mekanis yang teridentifikasi."
	if list := Issues(report); len(list) > 0 {
		issues = strings.Join(list, "\n")
	}
	note := report.AdditionalNote
	if note == "" {
		note = "Tidak ada"
	}

	var b strings.Builder
	b.WriteString("Sebagai ahli pemeliharaan armada kendaraan dinas pemerintah (BPMP Lampung), ")
	b.WriteString("analisis laporan inspeksi berikut dan berikan ringkasan profesional yang singkat ")
	b.WriteString("mengenai kesehatan kendaraan dan rekomendasi pemeliharaan mendesak.\n\n")
	fmt.Fprintf(&b, "Kendaraan: %s (%s)\n", report.VehicleType, report.PlateNumber)
	fmt.Fprintf(&b, "Odometer: %s KM\n", report.Odometer)
	fmt.Fprintf(&b, "Level BBM: %d%%\n\n", report.FuelLevel)
	fmt.Fprintf(&b, "Isu yang Ditemukan:\n%s\n\n", issues)
	fmt.Fprintf(&b, "Catatan Tambahan Pemeriksa: %s\n\n", note)
	b.WriteString("Format respons dalam Markdown:\n")
	b.WriteString("1. **Ringkasan Eksekutif** (Status: Baik/Perlu Perhatian/Mendesak)\n")
	b.WriteString("2. **Temuan Utama**\n")
	b.WriteString("3. **Rekomendasi Ahli**\n")
	b.WriteString("4. **Skor Urgensi Pemeliharaan** (0-10)\n\n")
	b.WriteString("Gunakan bahasa Indonesia yang profesional dan lugas.")
	return b.String()
}
