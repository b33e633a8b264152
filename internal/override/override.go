// Package override decodes the per-request usage-preference override
// carried in a chat-completions request's metadata.archgw_preference_config
// field. That field is a YAML-encoded string embedded inside the JSON
// request body, not nested JSON.
package override

import (
	"gopkg.in/yaml.v3"

	"github.com/archrouter/gateway/internal/catalog"
)

// RoutingPreference is one named route a request-scoped override supplies
// for a given model.
type RoutingPreference struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// UsagePreference binds a model identifier to the routes it should be
// reachable under, for the duration of one request.
type UsagePreference struct {
	Model              string              `yaml:"model"`
	RoutingPreferences []RoutingPreference `yaml:"routing_preferences"`
}

// Parse decodes the archgw_preference_config YAML string into its typed
// form. Any parse error is returned to the caller, which is expected to
// treat a non-nil error as "no override applies" and debug-log it, not
// fail the request.
func Parse(raw string) ([]UsagePreference, error) {
	var prefs []UsagePreference
	if err := yaml.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// FlattenRoutingPreferences collects every RoutingPreference across every
// UsagePreference entry into the single route list the prompt builder
// embeds in the router prompt, replacing (for this request only) the
// catalog's own routing view.
func FlattenRoutingPreferences(prefs []UsagePreference) []catalog.RoutePreference {
	var out []catalog.RoutePreference
	for _, pref := range prefs {
		for _, rp := range pref.RoutingPreferences {
			out = append(out, catalog.RoutePreference{Name: rp.Name, Description: rp.Description})
		}
	}
	if out == nil {
		out = []catalog.RoutePreference{}
	}
	return out
}

// ResolveModel scans the override entries for the first RoutingPreference
// whose Name matches routeName and returns the model it is bound to.
func ResolveModel(prefs []UsagePreference, routeName string) (string, bool) {
	for _, pref := range prefs {
		for _, rp := range pref.RoutingPreferences {
			if rp.Name == routeName {
				return pref.Model, true
			}
		}
	}
	return "", false
}
