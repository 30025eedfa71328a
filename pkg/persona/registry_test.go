package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		defaultID string
		personas  []Persona
		wantErr   string
	}{
		{"empty id", "a", []Persona{{ID: " ", Prompt: "x"}}, "empty id"},
		{"empty prompt", "a", []Persona{{ID: "a", Prompt: "  "}}, "empty prompt"},
		{"duplicate", "a", []Persona{{ID: "a", Prompt: "x"}, {ID: "a", Prompt: "y"}}, "duplicate"},
		{"missing default", "b", []Persona{{ID: "a", Prompt: "x"}}, "not registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.defaultID, tt.personas...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, r)
		})
	}
}

func TestLookup_KnownAndFallback(t *testing.T) {
	r, err := New("b", Persona{ID: "a", Prompt: "prompt a"}, Persona{ID: "b", Prompt: "prompt b"})
	require.NoError(t, err)

	p, ok := r.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, Persona{ID: "a", Prompt: "prompt a"}, p)

	p, ok = r.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, "b", p.ID, "unknown ids answer as the default persona")
	assert.Equal(t, "prompt b", p.Prompt)
}

func TestIDs_PreserveOrder(t *testing.T) {
	r, err := New("z", Persona{ID: "z", Prompt: "1"}, Persona{ID: "a", Prompt: "2"}, Persona{ID: "m", Prompt: "3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, r.IDs())
	assert.Equal(t, 3, r.Len())

	// Callers can't mutate the registry through the returned slice
	ids := r.IDs()
	ids[0] = "changed"
	assert.Equal(t, "z", r.IDs()[0])
}

func TestBuiltin(t *testing.T) {
	r := NewBuiltin()
	assert.Equal(t, DefaultID, r.DefaultID())
	assert.True(t, r.Has("mentor_male"))
	assert.Equal(t, len(Builtin()), r.Len())
	for _, p := range r.All() {
		assert.NotEmpty(t, p.Prompt, p.ID)
	}
}

func TestLoadFile_MergesOverBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yml")
	content := []byte(`
default: pirate
personas:
  - id: poet
    prompt: You are a haiku master.
  - id: pirate
    prompt: You are a salty pirate captain.
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	r, err := LoadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "pirate", r.DefaultID())
	assert.Equal(t, len(Builtin())+1, r.Len())
	assert.Equal(t, "pirate", r.IDs()[r.Len()-1])

	p, ok := r.Lookup("poet")
	require.True(t, ok)
	assert.Equal(t, "You are a haiku master.", p.Prompt)
}

func TestLoadFile_OverrideIDIsTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yml")
	content := []byte(`
personas:
  - id: " poet "
    prompt: You write only limericks.
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	r, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, len(Builtin()), r.Len())

	p, ok := r.Lookup("poet")
	require.True(t, ok)
	assert.Equal(t, "poet", p.ID)
	assert.Equal(t, "You write only limericks.", p.Prompt)
}

func TestLoadFile_EmptyPath(t *testing.T) {
	r, err := LoadFile("", "grandma")
	require.NoError(t, err)
	assert.Equal(t, "grandma", r.DefaultID())
	assert.Equal(t, len(Builtin()), r.Len())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"), "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("personas: [ {id: x, prompt: \"\"} ]"), 0644))
	_, err = LoadFile(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prompt")
}
