// Package registry declares the components and tools the decision engine
// may invoke, validates their props and renders components to HTML
// fragments.
package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/go-viper/mapstructure/v2"

	applog "intentos/internal/log"
	"intentos/internal/views"
	"intentos/web"
)

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidProps     = errors.New("invalid props")
)

var logger = applog.WithComponent(applog.ComponentRegistry)

// Rendered is the output of a component invocation.
type Rendered struct {
	Component string        `json:"component"`
	Props     any           `json:"props"`
	HTML      template.HTML `json:"html"`
}

// Component is a renderable UI element. build receives validated props and
// returns the resolved props and the template data.
type Component struct {
	Name        string
	Description string
	Schema      Schema

	template string
	build    func(ctx context.Context, raw map[string]any) (props any, data any, err error)
}

// ComponentRegistry resolves component names to components.
type ComponentRegistry struct {
	components map[string]Component
	tmpl       *template.Template
}

// TemplateFuncs are the helpers available to component and page templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleClass": func(category string) string { return views.StyleFor(category).Class },
		"shortDate":  func(t time.Time) string { return t.Format("Jan 2") },
		"swatch":     func(color string) template.CSS { return template.CSS("background: " + color) },
	}
}

// NewComponentRegistry returns a registry holding the built-in components.
func NewComponentRegistry() (*ComponentRegistry, error) {
	tmpl, err := web.Templates(TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse component templates: %w", err)
	}
	r := &ComponentRegistry{
		components: make(map[string]Component),
		tmpl:       tmpl,
	}
	for _, c := range builtinComponents() {
		r.components[c.Name] = c
	}
	return r, nil
}

// Components returns every registered component sorted by name.
func (r *ComponentRegistry) Components() []Component {
	out := make([]Component, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the component called name.
func (r *ComponentRegistry) Lookup(name string) (Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Invoke validates raw against the component schema, applies defaults and
// renders the component. Components that read session state panic when ctx
// carries no session.
func (r *ComponentRegistry) Invoke(ctx context.Context, name string, raw map[string]any) (Rendered, error) {
	c, ok := r.components[name]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := c.Schema.Validate(raw); err != nil {
		return Rendered{}, fmt.Errorf("%s: %w", name, err)
	}

	props, data, err := c.build(ctx, raw)
	if err != nil {
		return Rendered{}, fmt.Errorf("%s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, c.template, data); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", name, err)
	}

	logger.DebugContext(ctx, "Component rendered", applog.FieldComponentName, name)
	return Rendered{Component: name, Props: props, HTML: template.HTML(buf.String())}, nil
}

// decode copies raw into out, which already holds the defaults. Numeric
// strings and similar loose input are coerced to the target types.
func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProps, err)
	}
	return nil
}
