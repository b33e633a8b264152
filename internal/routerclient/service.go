// Package routerclient implements the Router Service: it orchestrates the
// prompt builder, the router LLM call, and the response parser behind a
// single determine_route operation.
package routerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/archrouter/gateway/internal/catalog"
	"github.com/archrouter/gateway/internal/chatproto"
	"github.com/archrouter/gateway/internal/override"
	"github.com/archrouter/gateway/internal/promptrouter"
)

const providerHintHeader = "x-arch-llm-provider-hint"

// RequestError wraps a transport-level failure reaching the router LLM.
type RequestError struct{ Cause error }

func (e *RequestError) Error() string { return fmt.Sprintf("router request failed: %v", e.Cause) }
func (e *RequestError) Unwrap() error { return e.Cause }

// JsonError wraps a router response body that failed to parse as a
// chat-completions response; Body is the raw payload, for diagnostics.
type JsonError struct {
	Body  string
	Cause error
}

func (e *JsonError) Error() string {
	return fmt.Sprintf("router response JSON error: %v (body: %q)", e.Cause, e.Body)
}
func (e *JsonError) Unwrap() error { return e.Cause }

// Service holds everything determine_route needs: the catalog handle, the
// router LLM's URL and model identifier, the provider-hint value sent with
// router calls, and a reusable HTTP client.
type Service struct {
	Catalog        *catalog.Catalog
	RouterURL      string
	RouterModel    string
	RouterProvider string
	Client         *http.Client
	Logger         *zap.Logger
}

// New builds a Service with a connection-reusing HTTP client.
func New(cat *catalog.Catalog, routerURL, routerModel, routerProvider string, logger *zap.Logger) *Service {
	return &Service{
		Catalog:        cat,
		RouterURL:      routerURL,
		RouterModel:    routerModel,
		RouterProvider: routerProvider,
		Client:         &http.Client{},
		Logger:         logger,
	}
}

// DetermineRoute classifies messages against the catalog (or the supplied
// per-request override) and resolves the winning route to a provider
// model. A nil *promptrouter.Decision with a nil error means no route
// applied — the caller should fall back to the client-supplied model.
func (s *Service) DetermineRoute(ctx context.Context, messages []chatproto.Message, traceparent string, overridePrefs []override.UsagePreference) (*promptrouter.Decision, error) {
	if !s.Catalog.HasRoutableProviders() {
		return nil, nil
	}

	snap := s.Catalog.Snapshot()
	routesJSON := snap.RoutesJSON
	if overridePrefs != nil {
		if flat, err := json.Marshal(override.FlattenRoutingPreferences(overridePrefs)); err == nil {
			routesJSON = string(flat)
		}
	}

	routerReq, err := promptrouter.BuildRequest(messages, routesJSON, s.RouterModel, s.Logger)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(routerReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.RouterURL, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(providerHintHeader, s.RouterProvider)
	httpReq.Header.Set("model", "arch-router")
	if traceparent != "" {
		httpReq.Header.Set("traceparent", traceparent)
	}

	start := time.Now()
	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Cause: err}
	}
	elapsed := time.Since(start)

	var chatResp chatproto.Response
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, &JsonError{Body: string(respBody), Cause: err}
	}

	if s.Logger != nil {
		s.Logger.Info("router call completed", zap.Duration("latency", elapsed), zap.Int("status", resp.StatusCode))
	}

	if len(chatResp.Choices) == 0 {
		return nil, nil
	}
	text := chatResp.Choices[0].Message.Content.FlattenedText()
	if text == "" {
		return nil, nil
	}

	decision, err := promptrouter.Parse(text, overridePrefs, snap)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("router response failed to parse", zap.Error(err))
		}
		return nil, nil
	}
	return decision, nil
}
