package launch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jguan/modelrun/pkg/unit/catalog"
)

func builtinConfig(t *testing.T, accID, modelID, engineID string, params Parameters) Config {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)

	acc, ok := c.Accelerator(accID)
	require.True(t, ok)
	model, ok := c.Model(modelID)
	require.True(t, ok)
	engine, ok := c.Engine(engineID)
	require.True(t, ok)

	return Config{Accelerator: acc, Model: model, Engine: engine, Parameters: params}
}

func scenarioParameters() Parameters {
	return Parameters{
		BatchSize:            1,
		MaxSeqLen:            4096,
		UseFP16:              true,
		GPUMemoryUtilization: 0.9,
		TensorParallelSize:   1,
		Port:                 8000,
		ModelPath:            "/models/llama-7b",
	}
}

func TestGenerate_VLLM(t *testing.T) {
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "vllm", scenarioParameters()))

	assert.Equal(t, []string{
		"--model /models/llama-7b/llama-7b",
		"--tensor-parallel-size 1",
		"--gpu-memory-utilization 0.9",
		"--max-model-len 4096",
		"--host 0.0.0.0",
		"--port 8000",
		"--dtype half",
	}, cmd.EngineFlags)
	assert.Equal(t, []string{"-p 8000:8000"}, cmd.PortMappings)
	assert.Equal(t, "vllm/vllm-openai:latest", cmd.Image)
	assert.Equal(t, "--gpus all", cmd.AcceleratorFlag)
}

func TestGenerate_VLLMWithoutFP16(t *testing.T) {
	p := scenarioParameters()
	p.UseFP16 = false
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "vllm", p))

	assert.Len(t, cmd.EngineFlags, 6)
	assert.NotContains(t, cmd.EngineFlags, "--dtype half")
}

func TestGenerate_TensorRTLLMSharesLength(t *testing.T) {
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "tensorrt-llm", scenarioParameters()))

	assert.Equal(t, []string{
		"--model_dir /models/llama-7b/llama-7b",
		"--max_batch_size 1",
		"--max_input_len 4096",
		"--max_output_len 4096",
		"--host 0.0.0.0",
		"--port 8000",
	}, cmd.EngineFlags)
}

func TestGenerate_Transformers(t *testing.T) {
	p := DefaultParameters()
	cmd := Generate(builtinConfig(t, "rtx-3060", "stable-diffusion-xl", "transformers", p))
	assert.Equal(t, []string{
		"python -m transformers.pipeline",
		"--model_name_or_path /models/stable-diffusion-xl",
		"--device_map auto",
		"--torch_dtype float16",
		"--max_length 2048",
		"--batch_size 1",
	}, cmd.EngineFlags)

	p.UseFP16 = false
	cmd = Generate(builtinConfig(t, "rtx-3060", "stable-diffusion-xl", "transformers", p))
	assert.Contains(t, cmd.EngineFlags, "--torch_dtype float32")
}

func TestGenerate_Ollama(t *testing.T) {
	p := DefaultParameters()
	p.Port = 11434
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "ollama", p))

	assert.Equal(t, []string{"serve", "--host 0.0.0.0:11434"}, cmd.EngineFlags)
	assert.Equal(t, []string{"-p 11434:11434"}, cmd.PortMappings)
}

func TestGenerate_UnknownEngine(t *testing.T) {
	cfg := builtinConfig(t, "rtx-4090", "llama-7b", "vllm", DefaultParameters())
	cfg.Engine = catalog.Engine{ID: "sglang", Image: "lmsysorg/sglang:latest"}

	cmd := Generate(cfg)

	assert.NotNil(t, cmd.EngineFlags)
	assert.Empty(t, cmd.EngineFlags)
	assert.Equal(t, []string{"-p 8000:8000"}, cmd.PortMappings)
	assert.Equal(t, []string{"-v /my/models:/models", "-v /tmp/.X11-unix:/tmp/.X11-unix:rw"}, cmd.VolumeMounts)
	assert.Len(t, cmd.EnvironmentVariables, 3)
	assert.True(t, strings.HasSuffix(cmd.DockerCommand, "lmsysorg/sglang:latest"))
}

func TestGenerate_Baseline(t *testing.T) {
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "vllm", DefaultParameters()))

	assert.Equal(t, []string{"-v /my/models:/models", "-v /tmp/.X11-unix:/tmp/.X11-unix:rw"}, cmd.VolumeMounts)
	assert.Equal(t, map[string]string{
		"CUDA_VISIBLE_DEVICES":       "0",
		"NVIDIA_VISIBLE_DEVICES":     "all",
		"NVIDIA_DRIVER_CAPABILITIES": "compute,utility",
	}, cmd.EnvironmentVariables)
	assert.Equal(t, []string{
		"CUDA_VISIBLE_DEVICES=0",
		"NVIDIA_VISIBLE_DEVICES=all",
		"NVIDIA_DRIVER_CAPABILITIES=compute,utility",
	}, cmd.EnvList())
}

func TestGenerate_DockerCommandLayout(t *testing.T) {
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "ollama", DefaultParameters()))

	want := strings.Join([]string{
		"docker run --gpus all",
		"-p 8000:8000",
		"-v /my/models:/models",
		"-v /tmp/.X11-unix:/tmp/.X11-unix:rw",
		"-e CUDA_VISIBLE_DEVICES=0",
		"-e NVIDIA_VISIBLE_DEVICES=all",
		"-e NVIDIA_DRIVER_CAPABILITIES=compute,utility",
		"ollama/ollama:latest",
		"serve",
		"--host 0.0.0.0:8000",
	}, " \\\n  ")
	assert.Equal(t, want, cmd.DockerCommand)
}

func TestGenerate_IsPure(t *testing.T) {
	cfg := builtinConfig(t, "a100-80gb", "qwen-14b", "vllm", DefaultParameters().Apply(Recommend("a100-80gb", "qwen-14b")))

	first := Generate(cfg)
	second := Generate(cfg)
	assert.Equal(t, first, second)
}

func TestGenerate_EveryEngineKindHasBuilder(t *testing.T) {
	for _, kind := range []EngineKind{KindVLLM, KindTensorRTLLM, KindTransformers, KindOllama} {
		_, ok := flagBuilders[kind]
		assert.True(t, ok, kind.String())
	}
	_, ok := flagBuilders[KindUnknown]
	assert.False(t, ok)
}

func TestParseEngineKind(t *testing.T) {
	assert.Equal(t, KindVLLM, ParseEngineKind("vllm"))
	assert.Equal(t, KindTensorRTLLM, ParseEngineKind("tensorrt-llm"))
	assert.Equal(t, KindTransformers, ParseEngineKind("transformers"))
	assert.Equal(t, KindOllama, ParseEngineKind("ollama"))
	assert.Equal(t, KindUnknown, ParseEngineKind("VLLM"))
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "tensorrt-llm", KindTensorRTLLM.String())
}
