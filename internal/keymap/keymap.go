// Package keymap binds key presses to tree actions. User overrides from the
// config file are validated when they are registered; a typo in an action
// name fails startup instead of surfacing as a dead key later.
package keymap

import (
	"fmt"
	"sort"

	"github.com/marcus/treenav/internal/action"
)

// Binding pairs a bubbletea key string with an action.
type Binding struct {
	Key    string
	Action action.Kind
}

// DefaultBindings returns the stock keymap.
func DefaultBindings() []Binding {
	return []Binding{
		{Key: "q", Action: action.CloseTree},
		{Key: "esc", Action: action.CloseTree},
		{Key: "enter", Action: action.Select},
		{Key: "h", Action: action.OutDir},
		{Key: "left", Action: action.OutDir},
		{Key: "l", Action: action.InDir},
		{Key: "right", Action: action.InDir},
		{Key: "L", Action: action.IncLevel},
		{Key: "H", Action: action.DecLevel},
		{Key: "y", Action: action.YankRelPath},
		{Key: "Y", Action: action.YankAbsPath},
		{Key: "a", Action: action.Create},
		{Key: "d", Action: action.Delete},
		{Key: "r", Action: action.Rename},
		{Key: "R", Action: action.Refresh},
	}
}

// Registry resolves key strings to actions.
type Registry struct {
	bindings map[string]action.Kind
}

// NewRegistry builds a registry from the default bindings.
func NewRegistry() *Registry {
	r := &Registry{bindings: make(map[string]action.Kind)}
	for _, b := range DefaultBindings() {
		r.bindings[b.Key] = b.Action
	}
	return r
}

// ApplyOverrides rebinds keys from config. An unknown action name is a
// configuration error; an empty name unbinds the key.
func (r *Registry) ApplyOverrides(overrides map[string]string) error {
	for key, name := range overrides {
		if name == "" {
			delete(r.bindings, key)
			continue
		}
		kind, err := action.Parse(name)
		if err != nil {
			return fmt.Errorf("keymap override for %q: %w", key, err)
		}
		r.bindings[key] = kind
	}
	return nil
}

// Lookup returns the action bound to a key, or Invalid.
func (r *Registry) Lookup(key string) action.Kind {
	return r.bindings[key]
}

// Bindings returns the effective bindings sorted by key, for the help footer.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for k, a := range r.bindings {
		out = append(out, Binding{Key: k, Action: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
