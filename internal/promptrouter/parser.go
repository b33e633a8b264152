package promptrouter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/archrouter/gateway/internal/catalog"
	"github.com/archrouter/gateway/internal/override"
)

// Decision is a resolved routing outcome: the route name the router LLM
// selected and the provider model it resolves to.
type Decision struct {
	Route string
	Model string
}

// ParseError wraps a router reply that a strict JSON parser rejected even
// after the tolerant textual cleanup pass. Cleaned holds the string as it
// stood immediately before the failed parse, for diagnostics.
type ParseError struct {
	Cleaned string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("router response parse error: %v (cleaned: %q)", e.Cause, e.Cleaned)
}

func (e *ParseError) Unwrap() error { return e.Cause }

type routeReply struct {
	Route *string `json:"route"`
}

// Parse applies the tolerant JSON cleanup and extraction pipeline to the
// router LLM's raw reply text, then resolves the extracted route name to a
// provider model via the active override (if any) or the catalog snapshot.
// A nil Decision with a nil error means the router found no applicable
// route ("other", empty, absent, or unresolvable).
func Parse(raw string, overridePrefs []override.UsagePreference, snap catalog.Snapshot) (*Decision, error) {
	if raw == "" {
		return nil, nil
	}

	cleaned := raw
	cleaned = strings.ReplaceAll(cleaned, "'", "\"")
	cleaned = strings.ReplaceAll(cleaned, "\\n", "")
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var reply routeReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, &ParseError{Cleaned: cleaned, Cause: err}
	}

	if reply.Route == nil || *reply.Route == "" || *reply.Route == "other" {
		return nil, nil
	}
	route := *reply.Route

	if overridePrefs != nil {
		if model, ok := override.ResolveModel(overridePrefs, route); ok {
			return &Decision{Route: route, Model: model}, nil
		}
		return nil, nil
	}

	if model, ok := snap.RouteToModel[route]; ok {
		return &Decision{Route: route, Model: model}, nil
	}
	return nil, nil
}
