package llm

import (
	"errors"
	"fmt"
)

// ToolSchema is a named function signature the model is constrained to call.
// Parameters is a JSON schema object.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Validate checks that the schema is a named object schema and that every field
// a decoder reads is both declared and required.
func (s ToolSchema) Validate(fields ...string) error {
	if s.Name == "" {
		return errors.New("tool schema: name required")
	}
	if t, _ := s.Parameters["type"].(string); t != "object" {
		return fmt.Errorf("tool schema %s: parameters must be an object schema", s.Name)
	}
	props, _ := s.Parameters["properties"].(map[string]any)
	required := requiredFields(s.Parameters["required"])
	for _, f := range fields {
		if _, ok := props[f]; !ok {
			return fmt.Errorf("tool schema %s: property %q not declared", s.Name, f)
		}
		if !required[f] {
			return fmt.Errorf("tool schema %s: property %q not required", s.Name, f)
		}
	}
	return nil
}

func requiredFields(v any) map[string]bool {
	out := map[string]bool{}
	switch req := v.(type) {
	case []string:
		for _, f := range req {
			out[f] = true
		}
	case []any:
		for _, f := range req {
			if s, ok := f.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}
