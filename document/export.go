package document

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fleetcheck/models"
)

const (
	ContentTypeWord = "application/msword"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeCSV  = "text/csv"

	byteOrderMark = "\ufeff"
)

// Artifact is a downloadable rendition of a report.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ContentDisposition returns the attachment header value for a.
func (a Artifact) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})
}

var filenameReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\"", "", "\n", " ", "\r", " ")

// BaseFilename is "Checklist_<plate>_<month>_<year>" with path separators removed.
func BaseFilename(r *models.Report) string {
	return filenameReplacer.Replace(fmt.Sprintf("Checklist_%s_%s_%s", r.PlateNumber, r.Month, r.Year))
}

// WordDocument wraps the HTML page in a byte-order mark and labels it as a
// legacy Word document, which word processors open as rich text.
func WordDocument(r *models.Report) (Artifact, error) {
	page, err := RenderHTML(r)
	if err != nil {
		return Artifact{}, err
	}
	body := make([]byte, 0, len(byteOrderMark)+len(page))
	body = append(body, byteOrderMark...)
	body = append(body, page...)
	return Artifact{
		Filename:    BaseFilename(r) + ".doc",
		ContentType: ContentTypeWord,
		Body:        body,
	}, nil
}

// HTMLDocument is the bare printable page.
func HTMLDocument(r *models.Report) (Artifact, error) {
	page, err := RenderHTML(r)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    BaseFilename(r) + ".html",
		ContentType: ContentTypeHTML,
		Body:        page,
	}, nil
}

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"Report ID",
	"No. Polisi",
	"Jenis Kendaraan",
	"Bulan",
	"Tahun",
	"Driver",
	"NIP Driver",
	"Ketua Tim",
	"NIP Ketua Tim",
	"Odometer",
	"Bahan Bakar",
	"Jumlah Temuan",
	"Dibuat",
}

// WriteCSV writes one summary row per report.
func WriteCSV(w io.Writer, reports []models.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range reports {
		r := &reports[i]
		row := []string{
			r.ID,
			r.PlateNumber,
			r.VehicleType,
			r.Month,
			r.Year,
			r.DriverName,
			r.DriverNIP,
			r.KatimName,
			r.KatimNIP,
			r.Odometer,
			FuelLabel(r.FuelLevel),
			strconv.Itoa(CountIssues(r)),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVExport renders the history export as an artifact stamped with at.
func CSVExport(reports []models.Report, at time.Time) (Artifact, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, reports); err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    fmt.Sprintf("fleetcheck_reports_%s.csv", at.Format("2006-01-02_15-04-05")),
		ContentType: ContentTypeCSV,
		Body:        buf.Bytes(),
	}, nil
}

// ShareMessage is the short chat summary of a report.
func ShareMessage(r *models.Report) string {
	status := "✅ Aman"
	if n := CountIssues(r); n > 0 {
		status = fmt.Sprintf("⚠️ %d Temuan", n)
	}
	return fmt.Sprintf("*RANDIS BPMP LAMPUNG*\n*Unit:* %s (%s)\n*Status:* %s", r.VehicleType, r.PlateNumber, status)
}

// WhatsAppURL opens a chat pre-filled with ShareMessage.
func WhatsAppURL(r *models.Report) string {
	return "https://wa.me/?text=" + url.QueryEscape(ShareMessage(r))
}
