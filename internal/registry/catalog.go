package registry

import (
	"fmt"

	"intentos/internal/population"
)

// Entry kinds.
const (
	KindComponent = "component"
	KindTool      = "tool"
)

// Entry describes one component or tool to the decision engine.
type Entry struct {
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Props       map[string]any `json:"props"`
	Output      map[string]any `json:"output,omitempty"`
}

// Registry bundles the component and tool registries.
type Registry struct {
	Components *ComponentRegistry
	Tools      *ToolRegistry
}

// New returns a registry with every built-in component and tool.
func New(src PopulationSource) (*Registry, error) {
	components, err := NewComponentRegistry()
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("registry: population source is required")
	}
	return &Registry{Components: components, Tools: NewToolRegistry(src)}, nil
}

// Catalog lists components first, then tools, each sorted by name.
func (r *Registry) Catalog() []Entry {
	out := []Entry{}
	for _, c := range r.Components.Components() {
		out = append(out, Entry{
			Kind:        KindComponent,
			Name:        c.Name,
			Description: c.Description,
			Props:       c.Schema.JSONSchema(),
		})
	}
	for _, t := range r.Tools.Tools() {
		out = append(out, Entry{
			Kind:        KindTool,
			Name:        t.Name,
			Description: t.Description,
			Props:       t.Input.JSONSchema(),
			Output: map[string]any{
				"type":  "array",
				"items": t.Output.JSONSchema(),
			},
		})
	}
	return out
}

var _ PopulationSource = (*population.Source)(nil)
