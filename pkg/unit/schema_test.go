package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jguan/modelrun/pkg/unit/ptrs"
)

func TestSchema_ValidateObject(t *testing.T) {
	s := ObjectSchema(map[string]Field{
		"accelerator": StringField("accelerator", "Accelerator ID"),
		"port":        NumberField("port", "Port", ptrs.Float64(1), ptrs.Float64(65535)),
		"fp16":        BooleanField("fp16", "Half precision"),
	}, "accelerator")

	tests := []struct {
		name    string
		input   any
		wantErr string
	}{
		{name: "valid", input: map[string]any{"accelerator": "rtx-4090", "port": 8000, "fp16": true}},
		{name: "json number", input: map[string]any{"accelerator": "rtx-4090", "port": float64(8000)}},
		{name: "missing required", input: map[string]any{"port": 8000}, wantErr: `required field "accelerator" is missing`},
		{name: "empty required", input: map[string]any{"accelerator": ""}, wantErr: `required field "accelerator" is missing`},
		{name: "port too high", input: map[string]any{"accelerator": "a", "port": 70000}, wantErr: "exceeds maximum"},
		{name: "port too low", input: map[string]any{"accelerator": "a", "port": 0}, wantErr: "less than minimum"},
		{name: "wrong type", input: map[string]any{"accelerator": 3}, wantErr: "expected string"},
		{name: "bool type", input: map[string]any{"accelerator": "a", "fp16": "yes"}, wantErr: "expected boolean"},
		{name: "not an object", input: "rtx-4090", wantErr: "expected object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSchema_ValidateEnum(t *testing.T) {
	s := Schema{Type: "string", Enum: []any{"entry", "mid", "high", "professional"}}

	assert.NoError(t, s.Validate("mid"))
	assert.Error(t, s.Validate("ultra"))
}

func TestSchema_ValidateNil(t *testing.T) {
	s := Schema{Type: "object"}
	assert.Error(t, s.Validate(nil))
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{4, 4, true},
		{int64(8), 8, true},
		{float64(16), 16, true},
		{1.5, 0, false},
		{"4096", 4096, true},
		{"abc", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %v", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(0.9)
	assert.True(t, ok)
	assert.Equal(t, 0.9, f)

	f, ok = ToFloat(1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = ToFloat("0.9")
	assert.False(t, ok)
}

func TestInputMap(t *testing.T) {
	assert.Empty(t, InputMap(nil))
	assert.Empty(t, InputMap("x"))
	m := InputMap(map[string]any{"id": "rtx-4090"})
	assert.Equal(t, "rtx-4090", StringValue(m, "id"))
	assert.Empty(t, StringValue(m, "missing"))
}
