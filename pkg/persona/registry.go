package persona

import (
	"fmt"
	"strings"
)

// Persona is a named system prompt that sets the voice of the final reply.
type Persona struct {
	ID     string `yaml:"id"`
	Prompt string `yaml:"prompt"`
}

// Registry is an ordered, read-only persona table. It is built once at
// startup and shared between requests without locking.
type Registry struct {
	order     []string
	prompts   map[string]string
	defaultID string
}

// New builds a registry. Ids must be unique and non-empty, prompts non-empty,
// and defaultID must be one of the given personas.
func New(defaultID string, personas ...Persona) (*Registry, error) {
	r := &Registry{
		order:     make([]string, 0, len(personas)),
		prompts:   make(map[string]string, len(personas)),
		defaultID: defaultID,
	}

	for _, p := range personas {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("persona with empty id")
		}
		if strings.TrimSpace(p.Prompt) == "" {
			return nil, fmt.Errorf("persona %q has an empty prompt", id)
		}
		if _, exists := r.prompts[id]; exists {
			return nil, fmt.Errorf("duplicate persona id %q", id)
		}
		r.order = append(r.order, id)
		r.prompts[id] = p.Prompt
	}

	if _, ok := r.prompts[defaultID]; !ok {
		return nil, fmt.Errorf("default persona %q is not registered", defaultID)
	}

	return r, nil
}

// Lookup returns the persona for id. Unknown ids resolve to the default
// persona and ok is false; the returned Persona.ID is the one that answers.
func (r *Registry) Lookup(id string) (Persona, bool) {
	if prompt, ok := r.prompts[id]; ok {
		return Persona{ID: id, Prompt: prompt}, true
	}
	return Persona{ID: r.defaultID, Prompt: r.prompts[r.defaultID]}, false
}

func (r *Registry) Has(id string) bool {
	_, ok := r.prompts[id]
	return ok
}

// IDs returns persona ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) All() []Persona {
	all := make([]Persona, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, Persona{ID: id, Prompt: r.prompts[id]})
	}
	return all
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) DefaultID() string {
	return r.defaultID
}
