package unit

import "context"

type Schema struct {
	Type       string           `json:"type"`
	Properties map[string]Field `json:"properties,omitempty"`
	Items      *Schema          `json:"items,omitempty"`
	Required   []string         `json:"required,omitempty"`

	Description string `json:"description,omitempty"`

	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Enum    []any    `json:"enum,omitempty"`
	Default any      `json:"default,omitempty"`
}

type Field struct {
	Schema
	Name string `json:"name"`
}

type Example struct {
	Input       any    `json:"input"`
	Output      any    `json:"output"`
	Description string `json:"description,omitempty"`
}

// Query is a side-effect free unit: every catalog lookup, recommendation and
// command rendering is exposed as one.
type Query interface {
	Name() string
	Domain() string
	InputSchema() Schema
	OutputSchema() Schema
	Execute(ctx context.Context, input any) (output any, err error)
	Description() string
	Examples() []Example
}
