// Package catalog implements the Route Catalog: the in-memory, read-mostly
// mapping of configured providers to their routing metadata.
//
// Readers take a cheap, immutable snapshot (a copy-on-write handle) instead
// of holding a lock across a request; only the writer that rebuilds the
// derived views takes a lock, and only for the duration of the rebuild.
package catalog

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
)

// Provider is a configured upstream model binding. Name is the internal
// route handle; Model is the provider-qualified model string sent
// upstream; Usage, when non-empty, marks the provider as routable and
// supplies the natural-language description the router LLM sees.
type Provider struct {
	Name  string
	Model string
	Usage string
}

// RoutePreference is one entry of the routing view embedded in the router
// prompt: the exact JSON shape the router LLM is shown for each routable
// provider.
type RoutePreference struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PreferenceRecord is the full view returned by the preferences API —
// includes the provider's model alongside its routing description.
type PreferenceRecord struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Usage string `json:"usage"`
}

// PreferenceUpdate is one entry of a PUT /v1/router/preferences batch. Model
// is accepted on the wire but intentionally ignored: model identity is a
// configuration-time decision, not a runtime preference.
type PreferenceUpdate struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Usage string `json:"usage"`
}

// UnknownProviderError is returned when an UpdatePreferences batch names a
// provider the catalog does not know about. The whole batch is rejected;
// no partial update is applied.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Name)
}

// Snapshot is an immutable, cheaply-copyable view of the catalog at an
// instant: the routes JSON to embed in the router prompt, and the
// route-name → provider-model map used to resolve a classification.
type Snapshot struct {
	RoutesJSON   string
	RouteToModel map[string]string
	HasRoutable  bool
}

type state struct {
	providers    []Provider
	routesJSON   string
	routeToModel map[string]string
	hasRoutable  bool
}

// Catalog is the Route Catalog. The zero value is not usable; construct
// with New.
type Catalog struct {
	mu      sync.Mutex // serializes writers only
	current atomic.Pointer[state]
}

// New builds a Catalog from the configured providers. The returned
// Catalog owns an independent copy of providers; later mutation of the
// caller's slice has no effect.
func New(providers []Provider) *Catalog {
	c := &Catalog{}
	c.current.Store(buildState(providers))
	return c
}

func buildState(providers []Provider) *state {
	owned := make([]Provider, len(providers))
	copy(owned, providers)

	var prefs []RoutePreference
	routeToModel := make(map[string]string, len(owned))
	for _, p := range owned {
		if p.Usage == "" {
			continue
		}
		prefs = append(prefs, RoutePreference{Name: p.Name, Description: p.Usage})
		routeToModel[p.Name] = p.Model
	}
	if prefs == nil {
		prefs = []RoutePreference{}
	}
	routesJSON, err := json.Marshal(prefs)
	if err != nil {
		routesJSON = []byte("[]")
	}

	return &state{
		providers:    owned,
		routesJSON:   string(routesJSON),
		routeToModel: routeToModel,
		hasRoutable:  len(prefs) > 0,
	}
}

// Snapshot returns a cheap, immutable view of the catalog. Concurrent
// writers never mutate the returned value; a Snapshot taken before a
// concurrent UpdatePreferences reflects the pre-update state in its
// entirety.
func (c *Catalog) Snapshot() Snapshot {
	s := c.current.Load()
	return Snapshot{
		RoutesJSON:   s.routesJSON,
		RouteToModel: s.routeToModel,
		HasRoutable:  s.hasRoutable,
	}
}

// HasRoutableProviders reports whether any configured provider carries a
// non-empty Usage description — the Router Service's fast path depends on
// this to skip the router LLM call entirely.
func (c *Catalog) HasRoutableProviders() bool {
	return c.current.Load().hasRoutable
}

// ListPreferences returns one record per configured provider, routable or
// not, in configuration order.
func (c *Catalog) ListPreferences() []PreferenceRecord {
	s := c.current.Load()
	out := make([]PreferenceRecord, len(s.providers))
	for i, p := range s.providers {
		out[i] = PreferenceRecord{Name: p.Name, Model: p.Model, Usage: p.Usage}
	}
	return out
}

// UpdatePreferences applies a batch of usage-description changes
// atomically: either every named provider matches and the whole batch is
// applied, or none of it is. Model identity is never modified by this
// operation, even if the batch entry sets a different Model value.
func (c *Catalog) UpdatePreferences(batch []PreferenceUpdate) ([]PreferenceRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current.Load()
	index := make(map[string]int, len(cur.providers))
	for i, p := range cur.providers {
		index[p.Name] = i
	}

	for _, u := range batch {
		if _, ok := index[u.Name]; !ok {
			return nil, &UnknownProviderError{Name: u.Name}
		}
	}

	next := make([]Provider, len(cur.providers))
	copy(next, cur.providers)

	updated := make([]PreferenceRecord, 0, len(batch))
	for _, u := range batch {
		i := index[u.Name]
		next[i].Usage = u.Usage
		updated = append(updated, PreferenceRecord{Name: next[i].Name, Model: next[i].Model, Usage: next[i].Usage})
	}

	c.current.Store(buildState(next))
	return updated, nil
}
