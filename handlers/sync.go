package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fleetcheck/middleware"
	"fleetcheck/store"

	"github.com/apex/log"
)

type SyncHandler struct {
	reports   *store.ReportStore
	publicURL string
}

func NewSyncHandler(reports *store.ReportStore, publicURL string) *SyncHandler {
	return &SyncHandler{
		reports:   reports,
		publicURL: publicURL,
	}
}

type SyncStatusResponse struct {
	SyncID    string `json:"sync_id"`
	ShareLink string `json:"share_link,omitempty"`
	Reports   int    `json:"reports"`
}

type SyncIDRequest struct {
	SyncID string `json:"sync_id"`
}

// SyncPullResponse represents the response for sync pull
type SyncPullResponse struct {
	store.PullResult
	Message string `json:"message,omitempty"`
}

type SyncPushResponse struct {
	Success bool   `json:"success"`
	Pushed  int    `json:"pushed"`
	Message string `json:"message,omitempty"`
}

// Status returns the active sync id and its share link.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.status())
}

func (h *SyncHandler) status() SyncStatusResponse {
	resp := SyncStatusResponse{SyncID: h.reports.SyncID(), Reports: h.reports.Len()}
	if link, err := h.reports.ShareLink(h.publicURL); err == nil {
		resp.ShareLink = link
	}
	return resp
}

// SetID switches the active sync id, then pulls from it. Ids typed in by hand
// are upper-cased; ids arriving through a share link are not.
func (h *SyncHandler) SetID(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req SyncIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.reports.SetSyncID(r.Context(), strings.ToUpper(req.SyncID))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSyncID) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("❌ Failed to set sync id")
		writeError(w, "Failed to set sync id", http.StatusInternalServerError)
		return
	}

	middleware.Audit(r, "sync.set_id", log.Fields{"sync_id": id})
	if _, err := h.reports.Pull(r.Context(), id); err != nil {
		log.WithError(err).WithField("sync_id", id).Warn("pull after switching sync id failed")
	}
	writeJSON(w, http.StatusOK, h.status())
}

// Pull merges the remote collection into the local one. A failing remote is
// reported as status "unavailable", never as an HTTP error.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	result, err := h.reports.Pull(r.Context(), "")
	switch {
	case errors.Is(err, store.ErrNoSyncID):
		writeError(w, "No sync id configured", http.StatusConflict)
	case errors.Is(err, store.ErrRemoteUnavailable):
		writeJSON(w, http.StatusOK, SyncPullResponse{PullResult: result, Message: "Cloud unavailable, local data kept"})
	case err != nil:
		log.WithError(err).Error("❌ Pull failed")
		writeError(w, "Failed to pull reports", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, SyncPullResponse{PullResult: result})
	}
}

// Push overwrites the remote collection with the local one.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	err := h.reports.Push(r.Context(), "")
	switch {
	case errors.Is(err, store.ErrNoSyncID):
		writeError(w, "No sync id configured", http.StatusConflict)
	case errors.Is(err, store.ErrRemoteUnavailable):
		writeJSON(w, http.StatusBadGateway, SyncPushResponse{Message: "Cloud unavailable, try again later"})
	case err != nil:
		log.WithError(err).Error("❌ Push failed")
		writeError(w, "Failed to push reports", http.StatusInternalServerError)
	default:
		middleware.Audit(r, "sync.push", log.Fields{"reports": h.reports.Len()})
		writeJSON(w, http.StatusOK, SyncPushResponse{Success: true, Pushed: h.reports.Len()})
	}
}
