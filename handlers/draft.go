package handlers

import (
	"net/http"

	"fleetcheck/models"
	"fleetcheck/store"

	"github.com/apex/log"
)

type DraftHandler struct {
	drafts *store.DraftStore
}

func NewDraftHandler(drafts *store.DraftStore) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type DraftResponse struct {
	Draft *models.Draft `json:"draft"`
}

// Draft returns the stored form on GET and replaces it on POST.
func (h *DraftHandler) Draft(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		resp := DraftResponse{}
		if d, ok := h.drafts.Get(r.Context()); ok {
			resp.Draft = &d
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var d models.Draft
		if !decodeJSON(w, r, &d) {
			return
		}
		if err := h.drafts.Save(r.Context(), d); err != nil {
			log.WithError(err).Error("❌ Failed to save draft")
			writeError(w, "Failed to save draft", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, DraftResponse{Draft: &d})
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Clear drops the stored form.
func (h *DraftHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if err := h.drafts.Clear(r.Context()); err != nil {
		log.WithError(err).Error("❌ Failed to clear draft")
		writeError(w, "Failed to clear draft", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Draft cleared"})
}
