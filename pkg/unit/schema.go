package unit

import (
	"fmt"
	"reflect"
)

// Validate checks input against the schema. Only the subset of JSON schema the
// units actually declare is supported: string, number, boolean and object with
// required keys and nested properties.
func (s *Schema) Validate(input any) error {
	if input == nil {
		return fmt.Errorf("input is nil")
	}

	switch s.Type {
	case "string":
		if _, ok := input.(string); !ok {
			return fmt.Errorf("expected string, got %T", input)
		}
		return s.validateEnum(input)
	case "number":
		value, ok := ToFloat(input)
		if !ok {
			return fmt.Errorf("expected number, got %T", input)
		}
		if s.Min != nil && value < *s.Min {
			return fmt.Errorf("value %v is less than minimum %v", value, *s.Min)
		}
		if s.Max != nil && value > *s.Max {
			return fmt.Errorf("value %v exceeds maximum %v", value, *s.Max)
		}
		return nil
	case "boolean":
		if _, ok := input.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", input)
		}
		return nil
	case "object":
		return s.validateObject(input)
	default:
		return fmt.Errorf("unknown schema type: %s", s.Type)
	}
}

func (s *Schema) validateObject(input any) error {
	obj, ok := input.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", input)
	}

	for _, req := range s.Required {
		if v, exists := obj[req]; !exists || v == nil || v == "" {
			return fmt.Errorf("required field %q is missing", req)
		}
	}

	for name, field := range s.Properties {
		value, exists := obj[name]
		if !exists || value == nil {
			continue
		}
		if err := field.Schema.Validate(value); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	return nil
}

func (s *Schema) validateEnum(input any) error {
	if len(s.Enum) == 0 {
		return nil
	}
	for _, enumValue := range s.Enum {
		if reflect.DeepEqual(input, enumValue) {
			return nil
		}
	}
	return fmt.Errorf("value %v is not one of allowed values %v", input, s.Enum)
}

func StringField(name, description string) Field {
	return Field{Name: name, Schema: Schema{Type: "string", Description: description}}
}

func NumberField(name, description string, min, max *float64) Field {
	return Field{Name: name, Schema: Schema{Type: "number", Description: description, Min: min, Max: max}}
}

func BooleanField(name, description string) Field {
	return Field{Name: name, Schema: Schema{Type: "boolean", Description: description}}
}

func ObjectSchema(properties map[string]Field, required ...string) Schema {
	return Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
