package persona

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk persona format:
//
//	default: mentor_male
//	personas:
//	  - id: pirate
//	    prompt: |
//	      You are a pirate...
type File struct {
	Default  string    `yaml:"default"`
	Personas []Persona `yaml:"personas"`
}

// LoadFile layers the personas in path over the built-in set. Entries with a
// built-in id replace its prompt in place; new ids are appended in file order.
// An empty path returns the built-in registry with defaultID.
func LoadFile(path, defaultID string) (*Registry, error) {
	if defaultID == "" {
		defaultID = DefaultID
	}
	if path == "" {
		return New(defaultID, Builtin()...)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse persona file: %w", err)
	}
	if f.Default != "" {
		defaultID = f.Default
	}

	return New(defaultID, merge(Builtin(), f.Personas)...)
}

func merge(base, overrides []Persona) []Persona {
	merged := make([]Persona, len(base))
	copy(merged, base)

	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ID] = i
	}

	for _, p := range overrides {
		p.ID = strings.TrimSpace(p.ID)
		if i, ok := index[p.ID]; ok {
			merged[i].Prompt = p.Prompt
			continue
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}
	return merged
}
