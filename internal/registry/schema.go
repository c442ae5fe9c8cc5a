package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the JSON type of a prop.
type FieldType string

const (
	String FieldType = "string"
	Number FieldType = "number"
	Enum   FieldType = "enum"
)

// Field describes one prop of a component or one input of a tool.
type Field struct {
	Name        string
	Type        FieldType
	Enum        []string
	Required    bool
	Default     any
	Description string
}

// Schema is a flat object schema.
type Schema struct {
	Fields []Field
}

// Validate checks raw against the schema: required fields must be present,
// strings must be strings, numbers may also be numeric strings and enum
// values must be one of the declared options. Unknown keys are ignored.
func (s Schema) Validate(raw map[string]any) error {
	var problems []string
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			if f.Required {
				problems = append(problems, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		if msg := f.check(v); msg != "" {
			problems = append(problems, msg)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProps, strings.Join(problems, "; "))
	}
	return nil
}

func (f Field) check(v any) string {
	switch f.Type {
	case String:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("%s must be a string", f.Name)
		}
	case Number:
		if !isNumber(v) {
			return fmt.Sprintf("%s must be a number", f.Name)
		}
	case Enum:
		s, ok := v.(string)
		if !ok || !contains(f.Enum, s) {
			return fmt.Sprintf("%s must be one of %s", f.Name, strings.Join(f.Enum, ", "))
		}
	}
	return ""
}

func isNumber(v any) bool {
	switch n := v.(type) {
	case int, int32, int64, float32, float64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return err == nil
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// JSONSchema renders the schema as a JSON Schema object.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := []string{}
	for _, f := range s.Fields {
		p := map[string]any{}
		switch f.Type {
		case Enum:
			p["type"] = "string"
			p["enum"] = f.Enum
		default:
			p["type"] = string(f.Type)
		}
		if f.Description != "" {
			p["description"] = f.Description
		}
		if f.Default != nil {
			p["default"] = f.Default
		}
		props[f.Name] = p
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
