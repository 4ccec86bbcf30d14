package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_Metadata(t *testing.T) {
	c := newTestCatalog(t)

	seen := map[string]bool{}
	for _, q := range Queries(c) {
		assert.Equal(t, "catalog", q.Domain())
		assert.NotEmpty(t, q.Description())
		assert.NotEmpty(t, q.Examples())
		assert.Equal(t, "object", q.InputSchema().Type)
		assert.False(t, seen[q.Name()], "duplicate query %s", q.Name())
		seen[q.Name()] = true
	}
	assert.Len(t, seen, 8)
}

func TestListAcceleratorsQuery(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	q := NewListAcceleratorsQuery(c)

	out, err := q.Execute(context.Background(), map[string]any{"tier": "mid"})
	require.NoError(t, err)
	result := out.(map[string]any)
	assert.Equal(t, 2, result["total"])

	_, err = q.Execute(context.Background(), map[string]any{"tier": "budget"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	out, err = q.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, out.(map[string]any)["total"])
}

func TestListModelsQuery(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	q := NewListModelsQuery(c)

	out, err := q.Execute(context.Background(), map[string]any{"category": "multimodal"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.(map[string]any)["total"])

	_, err = q.Execute(context.Background(), map[string]any{"category": "audio"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetQueries(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	ctx := context.Background()

	out, err := NewGetAcceleratorQuery(c).Execute(ctx, map[string]any{"id": "a100-80gb"})
	require.NoError(t, err)
	assert.Equal(t, 80, out.(Accelerator).MemoryGB)

	out, err = NewGetModelQuery(c).Execute(ctx, map[string]any{"id": "qwen-14b"})
	require.NoError(t, err)
	assert.Equal(t, 28, out.(Model).MinMemoryGB)

	out, err = NewGetEngineQuery(c).Execute(ctx, map[string]any{"id": "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "ollama/ollama:latest", out.(Engine).Image)

	_, err = NewGetModelQuery(c).Execute(ctx, map[string]any{"id": "gpt-5"})
	assert.ErrorIs(t, err, ErrModelNotFound)

	_, err = NewGetEngineQuery(c).Execute(ctx, map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompatibleModelsQuery(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	q := NewCompatibleModelsQuery(c)

	out, err := q.Execute(context.Background(), map[string]any{"accelerator": "rtx-3060"})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"chatglm-6b", "stable-diffusion-xl", "stable-diffusion-2.1"},
		modelIDs(out.(map[string]any)["models"].([]Model)))

	_, err = q.Execute(context.Background(), map[string]any{"accelerator": "tpu-v5"})
	assert.ErrorIs(t, err, ErrAcceleratorNotFound)

	_, err = q.Execute(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompatibleEnginesQuery(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	q := NewCompatibleEnginesQuery(c)

	out, err := q.Execute(context.Background(), map[string]any{"accelerator": "rtx-4090", "model": "llama-7b"})
	require.NoError(t, err)
	choices := out.(map[string]any)["engines"].([]EngineChoice)
	require.Len(t, choices, 3)
	for _, ch := range choices {
		assert.True(t, ch.Recommended, ch.ID)
	}

	_, err = q.Execute(context.Background(), map[string]any{"accelerator": "rtx-4090", "model": "nope"})
	assert.ErrorIs(t, err, ErrModelNotFound)
}
