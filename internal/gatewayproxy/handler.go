// Package gatewayproxy implements the Proxy Pipeline and the HTTP surface
// built on top of it: POST /v1/chat/completions, the preferences endpoint,
// and the models listing.
package gatewayproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/archrouter/gateway/internal/catalog"
	"github.com/archrouter/gateway/internal/chatproto"
	"github.com/archrouter/gateway/internal/override"
	"github.com/archrouter/gateway/internal/promptrouter"
	"github.com/archrouter/gateway/internal/telemetry"
)

const preferenceConfigKey = "archgw_preference_config"
const providerHintHeader = "x-arch-llm-provider-hint"

// Handler wires the Route Catalog, the Router Service, and the upstream
// endpoint into the gateway's HTTP surface.
type Handler struct {
	Catalog          *catalog.Catalog
	Router           Router
	UpstreamEndpoint string
	Client           *http.Client
	Logger           *zap.Logger
}

// Router is the narrow view of the Router Service the proxy pipeline
// depends on.
type Router interface {
	DetermineRoute(ctx context.Context, messages []chatproto.Message, traceparent string, overridePrefs []override.UsagePreference) (*promptrouter.Decision, error)
}

// ChatCompletions handles POST /v1/chat/completions: the Proxy Pipeline.
func (h *Handler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(rawBody, &generic); err != nil {
		http.Error(w, "malformed JSON request body", http.StatusBadRequest)
		return
	}

	var typed chatproto.Request
	if err := json.Unmarshal(rawBody, &typed); err != nil {
		http.Error(w, "malformed JSON request body", http.StatusBadRequest)
		return
	}

	overridePrefs := extractOverride(generic, h.Logger)

	outboundBody, err := json.Marshal(generic)
	if err != nil {
		http.Error(w, "failed to re-serialize request body", http.StatusInternalServerError)
		return
	}

	traceparent := telemetry.ExtractTraceparent(r.Header)

	decision, err := h.Router.DetermineRoute(r.Context(), typed.Messages, traceparent, overridePrefs)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("router service failed", zap.Error(err))
		}
		http.Error(w, "routing failed", http.StatusInternalServerError)
		return
	}

	resolvedModel := typed.Model
	if decision != nil {
		resolvedModel = decision.Model
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.UpstreamEndpoint, bytes.NewReader(outboundBody))
	if err != nil {
		http.Error(w, "failed to build upstream request", http.StatusInternalServerError)
		return
	}
	cloneHeaders(r.Header, upstreamReq.Header)
	upstreamReq.Header.Del("Content-Length")
	upstreamReq.Header.Set(providerHintHeader, resolvedModel)
	if traceparent != "" {
		upstreamReq.Header.Set("traceparent", traceparent)
	}

	resp, err := h.Client.Do(upstreamReq)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("upstream transport error", zap.Error(err))
		}
		http.Error(w, "upstream request failed", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	pumpUpstream(w, resp.Body, h.Logger)
}

// extractOverride pulls metadata.archgw_preference_config out of the
// generic request body, decodes it, and strips the key (and the whole
// metadata object, if now empty) from body in place. Parse failures
// degrade to "no override", debug-logged, never a request failure.
func extractOverride(body map[string]interface{}, logger *zap.Logger) []override.UsagePreference {
	metadataRaw, ok := body["metadata"]
	if !ok {
		return nil
	}
	metadata, ok := metadataRaw.(map[string]interface{})
	if !ok {
		return nil
	}

	rawConfig, ok := metadata[preferenceConfigKey]
	if !ok {
		return nil
	}

	delete(metadata, preferenceConfigKey)
	if len(metadata) == 0 {
		delete(body, "metadata")
	} else {
		body["metadata"] = metadata
	}

	configStr, ok := rawConfig.(string)
	if !ok {
		return nil
	}

	prefs, err := override.Parse(configStr)
	if err != nil {
		if logger != nil {
			logger.Debug("preference override unparseable, ignoring", zap.Error(err))
		}
		return nil
	}
	return prefs
}

func cloneHeaders(src http.Header, dst http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
