package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fleetcheck/db"
	"fleetcheck/store"

	"github.com/apex/log"
)

// NamespaceHandler serves the sync namespace itself: GET and POST on
// /kv/{syncId}, storing each value under a "remote:" key. It is what the
// remote client talks to when the deployment hosts its own namespace.
type NamespaceHandler struct {
	kv     db.KV
	prefix string
}

func NewNamespaceHandler(kv db.KV, prefix string) *NamespaceHandler {
	return &NamespaceHandler{kv: kv, prefix: strings.TrimSuffix(prefix, "/") + "/"}
}

func (h *NamespaceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.URL.EscapedPath(), h.prefix)
	if !ok || raw == "" || strings.Contains(raw, "/") {
		writeError(w, "Sync id is required", http.StatusNotFound)
		return
	}
	syncID, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(syncID) == "" {
		writeError(w, "Invalid sync id", http.StatusBadRequest)
		return
	}
	key := store.NamespacePrefix + syncID

	switch r.Method {
	case http.MethodGet:
		value, err := h.kv.Get(r.Context(), key)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.WithError(err).WithField("sync_id", syncID).Error("❌ Failed to read namespace")
			writeError(w, "Failed to read value", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(value)

	case http.MethodPost, http.MethodPut:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		if !json.Valid(body) {
			writeError(w, "Body must be JSON", http.StatusBadRequest)
			return
		}
		if err := h.kv.Set(r.Context(), key, body); err != nil {
			log.WithError(err).WithField("sync_id", syncID).Error("❌ Failed to write namespace")
			writeError(w, "Failed to store value", http.StatusInternalServerError)
			return
		}
		log.WithFields(log.Fields{"sync_id": syncID, "bytes": len(body)}).Info("☁️  Namespace value stored")
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
