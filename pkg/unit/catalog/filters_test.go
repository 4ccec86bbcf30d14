package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelIDs(models []Model) []string {
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	return ids
}

func engineIDs(engines []Engine) []string {
	ids := make([]string, 0, len(engines))
	for _, e := range engines {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestCompatibleModels(t *testing.T) {
	c := newTestCatalog(t)
	small, _ := c.Accelerator("small")
	big, _ := c.Accelerator("big")

	assert.Equal(t, []string{"tiny", "mid", "pic"}, modelIDs(c.CompatibleModels(small, "")))
	assert.Equal(t, []string{"mid"}, modelIDs(c.CompatibleModels(small, "fast")))
	assert.Equal(t, []string{"tiny", "mid", "pic"}, modelIDs(c.CompatibleModels(big, "")), "huge needs 140 GB")
}

func TestCompatibleModels_NoMatchIsEmpty(t *testing.T) {
	c := newTestCatalog(t)
	small, _ := c.Accelerator("small")

	result := c.CompatibleModels(small, "no-such-engine")
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestCompatibleModels_Builtin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	rtx3060, _ := c.Accelerator("rtx-3060")
	assert.Equal(t,
		[]string{"chatglm-6b", "stable-diffusion-xl", "stable-diffusion-2.1"},
		modelIDs(c.CompatibleModels(rtx3060, "")))

	rtx4090, _ := c.Accelerator("rtx-4090")
	for _, m := range c.CompatibleModels(rtx4090, "vllm") {
		assert.LessOrEqual(t, m.MinMemoryGB, 24)
		assert.Contains(t, m.SupportedEngines, "vllm")
	}

	h100, _ := c.Accelerator("h100-80gb")
	assert.NotContains(t, modelIDs(c.CompatibleModels(h100, "")), "llama-70b")
}

func TestCompatibleEngines(t *testing.T) {
	c := newTestCatalog(t)
	small, _ := c.Accelerator("small")
	big, _ := c.Accelerator("big")
	tiny, _ := c.Model("tiny")

	assert.Equal(t, []string{"ref"}, engineIDs(c.CompatibleEngines(small, nil)))
	assert.Equal(t, []string{"fast", "ref"}, engineIDs(c.CompatibleEngines(big, nil)))
	assert.Equal(t, []string{"ref"}, engineIDs(c.CompatibleEngines(big, &tiny)))
}

func TestCompatibleEngines_Builtin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	v100, _ := c.Accelerator("v100-16gb")
	assert.Equal(t, []string{"tensorrt-llm", "transformers"}, engineIDs(c.CompatibleEngines(v100, nil)))

	rtx4090, _ := c.Accelerator("rtx-4090")
	llava, _ := c.Model("llava-7b")
	assert.Equal(t, []string{"transformers"}, engineIDs(c.CompatibleEngines(rtx4090, &llava)))

	sdxl, _ := c.Model("stable-diffusion-xl")
	assert.Equal(t, []string{"transformers"}, engineIDs(c.CompatibleEngines(rtx4090, &sdxl)),
		"diffusers is not a catalog engine")
}

func TestEngineChoices(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	rtx4070, _ := c.Accelerator("rtx-4070")
	choices := c.EngineChoices(rtx4070, nil)
	require.Len(t, choices, 4)

	recommended := map[string]bool{}
	for _, ch := range choices {
		recommended[ch.ID] = ch.Recommended
	}
	assert.Equal(t, map[string]bool{
		"vllm":         true,
		"tensorrt-llm": false,
		"transformers": true,
		"ollama":       false,
	}, recommended)
}

func TestIsRecommended(t *testing.T) {
	acc := Accelerator{ID: "x", RecommendedEngines: []string{"vllm"}}
	assert.True(t, IsRecommended(acc, "vllm"))
	assert.False(t, IsRecommended(acc, "ollama"))
}

func TestAcceleratorsByTier(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	var ids []string
	for _, a := range c.AcceleratorsByTier(TierProfessional) {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a100-40gb", "a100-80gb", "v100-16gb", "h100-80gb"}, ids)
	assert.Len(t, c.AcceleratorsByTier(""), 10)
}

func TestModelsByCategory(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"stable-diffusion-xl", "stable-diffusion-2.1"}, modelIDs(c.ModelsByCategory(CategoryVision)))
	assert.Equal(t, []string{"llava-7b", "llava-13b"}, modelIDs(c.ModelsByCategory(CategoryMultimodal)))
	assert.Len(t, c.ModelsByCategory(CategoryLLM), 8)
}
