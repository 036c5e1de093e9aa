package handlers

import (
	"errors"
	"net/http"

	"fleetcheck/middleware"
	"fleetcheck/models"
	"fleetcheck/store"

	"github.com/apex/log"
)

type ReportHandler struct {
	reports *store.ReportStore
}

func NewReportHandler(reports *store.ReportStore) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Count   int             `json:"count"`
}

type ReportIDRequest struct {
	ID string `json:"id"`
}

// List returns the history, optionally filtered by ?q=.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	reports := h.reports.Search(r.URL.Query().Get("q"))
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, ReportListResponse{Reports: reports, Count: len(reports)})
}

// Get returns one report by ?id=.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	report, ok := lookupReport(w, h.reports, r.URL.Query().Get("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Save creates or updates a report.
func (h *ReportHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var report models.Report
	if !decodeJSON(w, r, &report) {
		return
	}

	result, err := h.reports.Save(r.Context(), report, user.UserID)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("❌ Failed to save report")
		writeError(w, "Failed to save report", http.StatusInternalServerError)
		return
	}

	middleware.Audit(r, "report.save", log.Fields{"id": result.Report.ID, "created": result.Created})
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// Delete removes a report; unknown ids succeed with deleted=false.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost, http.MethodDelete) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var req ReportIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, "Report ID is required", http.StatusBadRequest)
		return
	}

	result, err := h.reports.Delete(r.Context(), req.ID)
	if err != nil {
		log.WithError(err).Error("❌ Failed to delete report")
		writeError(w, "Failed to delete report", http.StatusInternalServerError)
		return
	}

	middleware.Audit(r, "report.delete", log.Fields{"id": req.ID, "deleted": result.Deleted})
	writeJSON(w, http.StatusOK, result)
}

func lookupReport(w http.ResponseWriter, reports *store.ReportStore, id string) (models.Report, bool) {
	if id == "" {
		writeError(w, "Report ID is required", http.StatusBadRequest)
		return models.Report{}, false
	}
	report, err := reports.Get(id)
	if err != nil {
		writeError(w, "Report not found", http.StatusNotFound)
		return models.Report{}, false
	}
	return report, true
}
