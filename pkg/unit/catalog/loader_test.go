package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jguan/modelrun/pkg/unit"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.Len(t, c.Accelerators(), 10)
	assert.Len(t, c.Models(), 12)
	assert.Len(t, c.Engines(), 4)

	again, err := Builtin()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestBuiltin_DeclarationOrder(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	var accIDs []string
	for _, a := range c.Accelerators() {
		accIDs = append(accIDs, a.ID)
	}
	assert.Equal(t, []string{
		"rtx-4090", "rtx-4080", "rtx-4070", "rtx-3090", "rtx-3080",
		"a100-40gb", "a100-80gb", "v100-16gb", "h100-80gb", "rtx-3060",
	}, accIDs)

	var engineIDs []string
	for _, e := range c.Engines() {
		engineIDs = append(engineIDs, e.ID)
	}
	assert.Equal(t, []string{"vllm", "tensorrt-llm", "transformers", "ollama"}, engineIDs)

	models := c.Models()
	assert.Equal(t, "llama-7b", models[0].ID)
	assert.Equal(t, "llava-13b", models[len(models)-1].ID)
}

func TestBuiltin_Entries(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	acc, ok := c.Accelerator("rtx-4090")
	require.True(t, ok)
	assert.Equal(t, 24, acc.MemoryGB)
	assert.Equal(t, "8.9", acc.ComputeCapability)
	assert.Equal(t, TierHigh, acc.Tier)
	assert.Equal(t, []string{"vllm", "tensorrt-llm", "transformers"}, acc.RecommendedEngines)

	m, ok := c.Model("llama-70b")
	require.True(t, ok)
	assert.Equal(t, 140, m.MinMemoryGB)
	assert.Equal(t, CategoryLLM, m.Category)

	e, ok := c.Engine("vllm")
	require.True(t, ok)
	assert.Equal(t, "vllm/vllm-openai:latest", e.Image)
}

func TestLoadFS_MissingFilesAreEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"data/engines.yaml": {Data: []byte(`
engines:
  - id: custom
    name: Custom
    image: example/custom:1.0
    supported_accelerators: [rtx-4090]
`)},
	}

	c, err := LoadFS(fsys, "data")
	require.NoError(t, err)
	assert.Empty(t, c.Accelerators())
	assert.Empty(t, c.Models())
	require.Len(t, c.Engines(), 1)
	assert.Equal(t, "custom", c.Engines()[0].ID)
}

func TestLoadFS_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		code unit.ErrorCode
	}{
		{
			name: "malformed yaml",
			file: AcceleratorsFile,
			data: "accelerators: [",
			code: unit.ErrCodeCatalogInvalid,
		},
		{
			name: "unknown tier",
			file: AcceleratorsFile,
			data: "accelerators:\n  - {id: x, memory_gb: 8, tier: budget}\n",
			code: unit.ErrCodeCatalogInvalid,
		},
		{
			name: "zero memory",
			file: AcceleratorsFile,
			data: "accelerators:\n  - {id: x, memory_gb: 0, tier: entry}\n",
			code: unit.ErrCodeCatalogInvalid,
		},
		{
			name: "unknown category",
			file: ModelsFile,
			data: "models:\n  - {id: m, min_memory_gb: 4, category: audio}\n",
			code: unit.ErrCodeCatalogInvalid,
		},
		{
			name: "engine without image",
			file: EnginesFile,
			data: "engines:\n  - {id: e}\n",
			code: unit.ErrCodeCatalogInvalid,
		},
		{
			name: "duplicate id",
			file: ModelsFile,
			data: "models:\n  - {id: m, min_memory_gb: 4, category: llm}\n  - {id: m, min_memory_gb: 8, category: llm}\n",
			code: unit.ErrCodeCatalogDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.file: {Data: []byte(tt.data)}}
			_, err := LoadFS(fsys, ".")
			require.Error(t, err)

			ue, ok := unit.AsUnitError(err)
			require.True(t, ok, "expected a unit error, got %v", err)
			assert.Equal(t, tt.code, ue.Code)
		})
	}
}

func TestWithOverlayDir(t *testing.T) {
	base, err := Builtin()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AcceleratorsFile), []byte(`
accelerators:
  - id: l40s
    name: NVIDIA L40S
    memory_gb: 48
    compute_capability: "8.9"
    recommended_engines: [vllm]
    tier: professional
`), 0o644))

	merged, err := base.WithOverlayDir(dir)
	require.NoError(t, err)

	accs := merged.Accelerators()
	require.Len(t, accs, 11)
	assert.Equal(t, "l40s", accs[10].ID)

	_, ok := base.Accelerator("l40s")
	assert.False(t, ok, "overlay must not modify the base catalog")
}

func TestWithOverlayDir_Duplicate(t *testing.T) {
	base, err := Builtin()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnginesFile), []byte(`
engines:
  - id: vllm
    name: vLLM fork
    image: example/vllm:dev
`), 0o644))

	_, err = base.WithOverlayDir(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}
