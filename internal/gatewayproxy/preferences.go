package gatewayproxy

import (
	"encoding/json"
	"net/http"

	"github.com/archrouter/gateway/internal/catalog"
)

// GetPreferences handles GET /v1/router/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Catalog.ListPreferences())
}

// UpdatePreferences handles PUT /v1/router/preferences.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var batch []catalog.PreferenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.Catalog.UpdatePreferences(batch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(updated) == 0 {
		http.Error(w, "no matching providers", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"updated_models": updated,
	})
}
