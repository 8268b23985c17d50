package provider

import "time"

// scheduleSlotHours partitions the 24 UTC hours into three fixed ranges of
// eight hours each, one per provider.
const scheduleSlotHours = 8

// defaultSchedule assigns each 8-hour UTC block to a provider:
// 00–08 Gemini, 08–16 OpenAI, 16–24 Ollama.
var defaultSchedule = [3]string{Gemini, OpenAI, Ollama}

// defaultPriority is the fallback order when the scheduled provider is not
// configured.
var defaultPriority = []string{Gemini, OpenAI, Ollama}

// Status is a read-only snapshot of router state for the health surface.
type Status struct {
	Active     string   `json:"active"`     // Provider selected for the current hour ("" if none)
	Configured []string `json:"configured"` // All configured provider names, priority order
}

// Router chooses a generation backend by wall-clock hour with ordered
// fallback. It holds no mutable state beyond read-only configuration, so it
// is safe for concurrent use without synchronization.
type Router struct {
	providers map[string]Provider
	schedule  [3]string
	priority  []string
}

// NewRouter creates a Router over the configured providers. Providers absent
// from the list are treated as unconfigured and skipped by selection.
func NewRouter(providers []Provider) *Router {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Router{
		providers: byName,
		schedule:  defaultSchedule,
		priority:  defaultPriority,
	}
}

// Select returns the provider whose schedule range contains the current UTC
// hour, if configured; otherwise the first configured provider in fallback
// priority order; otherwise ErrNoProvider.
func (r *Router) Select(now time.Time) (Provider, error) {
	slot := now.UTC().Hour() / scheduleSlotHours
	if p, ok := r.providers[r.schedule[slot]]; ok {
		return p, nil
	}
	for _, name := range r.priority {
		if p, ok := r.providers[name]; ok {
			return p, nil
		}
	}
	return nil, ErrNoProvider
}

// Status reports the currently scheduled provider and all configured ones.
func (r *Router) Status(now time.Time) Status {
	s := Status{Configured: []string{}}
	if p, err := r.Select(now); err == nil {
		s.Active = p.Name()
	}
	for _, name := range r.priority {
		if _, ok := r.providers[name]; ok {
			s.Configured = append(s.Configured, name)
		}
	}
	return s
}
