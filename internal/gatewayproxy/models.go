package gatewayproxy

import (
	"encoding/json"
	"net/http"
)

// modelEntry is one element of the GET /v1/models listing.
type modelEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ListModels handles GET /v1/models: an OpenAI-style list object
// enumerating the configured providers as model entries.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	prefs := h.Catalog.ListPreferences()
	data := make([]modelEntry, len(prefs))
	for i, p := range prefs {
		data[i] = modelEntry{ID: p.Name, Object: "model", OwnedBy: "organization"}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"object": "list",
		"data":   data,
	})
}

// ModelsPreflight handles OPTIONS /v1/models.
func (h *Handler) ModelsPreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.WriteHeader(http.StatusNoContent)
}
