package registry

import (
	"sort"

	"collabdesk-be/internal/entity"
)

// Registry is a read-only lookup of agent display metadata by id. It is
// populated once at construction and never mutated, so reads need no lock.
type Registry struct {
	agents map[string]entity.Agent
	order  []string
}

// NewRegistry builds a registry from a static catalog. Later duplicates of
// an id win, matching config-override semantics.
func NewRegistry(agents []entity.Agent) *Registry {
	r := &Registry{agents: make(map[string]entity.Agent, len(agents))}
	for _, a := range agents {
		if _, exists := r.agents[a.Id]; !exists {
			r.order = append(r.order, a.Id)
		}
		r.agents[a.Id] = a
	}
	sort.Strings(r.order)
	return r
}

// Get returns the agent for id. A miss means "no enrichment available",
// never an error.
func (r *Registry) Get(id string) (entity.Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}

// Has reports whether id is a known agent.
func (r *Registry) Has(id string) bool {
	_, ok := r.agents[id]
	return ok
}

// All returns every registered agent ordered by id.
func (r *Registry) All() []entity.Agent {
	out := make([]entity.Agent, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id])
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.agents)
}
