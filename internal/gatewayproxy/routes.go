package gatewayproxy

import "github.com/go-chi/chi/v5"

// Mount registers the gateway's HTTP surface on r.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/v1/chat/completions", h.ChatCompletions)
	r.Get("/v1/models", h.ListModels)
	r.Options("/v1/models", h.ModelsPreflight)
	r.Get("/v1/router/preferences", h.GetPreferences)
	r.Put("/v1/router/preferences", h.UpdatePreferences)
}
