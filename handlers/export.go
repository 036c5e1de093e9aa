package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleetcheck/document"
	"fleetcheck/models"
	"fleetcheck/store"

	"github.com/apex/log"
)

// Export formats accepted by ?format=.
const (
	FormatWord = "doc"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
)

type ExportHandler struct {
	reports *store.ReportStore
	now     func() time.Time
}

func NewExportHandler(reports *store.ReportStore) *ExportHandler {
	return &ExportHandler{reports: reports, now: time.Now}
}

type ShareResponse struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
	Issues      int    `json:"issues"`
}

// Export renders one report as a downloadable document. The default format
// is the Word-compatible HTML document.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	report, ok := lookupReport(w, h.reports, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	var (
		artifact document.Artifact
		err      error
	)
	switch format {
	case "", FormatWord:
		artifact, err = document.WordDocument(&report)
	case FormatHTML:
		artifact, err = document.HTMLDocument(&report)
	case FormatXLSX:
		artifact, err = document.Workbook(&report)
	default:
		writeError(w, "Unsupported export format", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).WithField("id", report.ID).Error("❌ Failed to render report")
		writeError(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	writeArtifact(w, artifact)
	log.WithFields(log.Fields{"id": report.ID, "format": format, "bytes": len(artifact.Body)}).Info("📄 Report exported")
}

// ExportCSV exports the history, optionally filtered by ?q=, as CSV.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	reports := h.reports.Search(r.URL.Query().Get("q"))
	artifact, err := document.CSVExport(reports, h.now())
	if err != nil {
		log.WithError(err).Error("❌ Failed to write CSV")
		writeError(w, "Failed to export reports", http.StatusInternalServerError)
		return
	}

	writeArtifact(w, artifact)
	log.WithFields(log.Fields{"username": user.Username, "reports": len(reports)}).Info("📊 CSV export")
}

// Share returns the WhatsApp summary of one report.
func (h *ExportHandler) Share(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	report, ok := lookupReport(w, h.reports, r.URL.Query().Get("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, shareResponse(&report))
}

func shareResponse(report *models.Report) ShareResponse {
	return ShareResponse{
		Message:     document.ShareMessage(report),
		WhatsAppURL: document.WhatsAppURL(report),
		Issues:      document.CountIssues(report),
	}
}

func writeArtifact(w http.ResponseWriter, a document.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", a.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Body); err != nil {
		log.WithError(err).Warn("failed to write export")
	}
}
