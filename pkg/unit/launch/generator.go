package launch

import (
	"fmt"
	"strings"

	"github.com/jguan/modelrun/pkg/unit/catalog"
)

const (
	baseCommand     = "docker run"
	AcceleratorFlag = "--gpus all"
	HostModelDir    = "/my/models"
	displaySocket   = "/tmp/.X11-unix:/tmp/.X11-unix:rw"
	bindAll         = "0.0.0.0"

	// Separator joins command groups: a shell line continuation and indent.
	Separator = " \\\n  "
)

// environment is emitted in this order.
var environment = []struct{ Key, Value string }{
	{"CUDA_VISIBLE_DEVICES", "0"},
	{"NVIDIA_VISIBLE_DEVICES", "all"},
	{"NVIDIA_DRIVER_CAPABILITIES", "compute,utility"},
}

// Config is a complete selection ready to render.
type Config struct {
	Accelerator catalog.Accelerator `json:"accelerator"`
	Model       catalog.Model       `json:"model"`
	Engine      catalog.Engine      `json:"engine"`
	Parameters  Parameters          `json:"parameters"`
}

// GeneratedCommand is the rendered launch in both joined and structured form.
type GeneratedCommand struct {
	DockerCommand        string            `json:"docker_command" yaml:"docker_command"`
	EnvironmentVariables map[string]string `json:"environment_variables" yaml:"environment_variables"`
	VolumeMounts         []string          `json:"volume_mounts" yaml:"volume_mounts"`
	PortMappings         []string          `json:"port_mappings" yaml:"port_mappings"`
	AcceleratorFlag      string            `json:"accelerator_flag" yaml:"accelerator_flag"`
	EngineFlags          []string          `json:"engine_flags" yaml:"engine_flags"`
	Image                string            `json:"image" yaml:"image"`
}

// EnvList returns the environment as KEY=VALUE pairs in emission order.
func (g GeneratedCommand) EnvList() []string {
	out := make([]string, 0, len(g.EnvironmentVariables))
	for _, kv := range environment {
		if v, ok := g.EnvironmentVariables[kv.Key]; ok {
			out = append(out, kv.Key+"="+v)
		}
	}
	return out
}

type flagBuilder func(cfg Config) []string

var flagBuilders = map[EngineKind]flagBuilder{
	KindVLLM:         vllmFlags,
	KindTensorRTLLM:  tensorRTLLMFlags,
	KindTransformers: transformersFlags,
	KindOllama:       ollamaFlags,
}

// Generate renders cfg. It is a pure function of its input and never fails;
// an engine without a builder simply gets no trailing flags.
func Generate(cfg Config) GeneratedCommand {
	p := cfg.Parameters

	ports := []string{fmt.Sprintf("-p %d:%d", p.Port, p.Port)}
	mounts := []string{
		fmt.Sprintf("-v %s:%s", HostModelDir, p.ModelPath),
		"-v " + displaySocket,
	}

	env := make(map[string]string, len(environment))
	envFlags := make([]string, 0, len(environment))
	for _, kv := range environment {
		env[kv.Key] = kv.Value
		envFlags = append(envFlags, fmt.Sprintf("-e %s=%s", kv.Key, kv.Value))
	}

	flags := []string{}
	if build, ok := flagBuilders[ParseEngineKind(cfg.Engine.ID)]; ok {
		flags = build(cfg)
	}

	groups := []string{baseCommand + " " + AcceleratorFlag}
	groups = append(groups, ports...)
	groups = append(groups, mounts...)
	groups = append(groups, envFlags...)
	groups = append(groups, cfg.Engine.Image)
	groups = append(groups, flags...)

	return GeneratedCommand{
		DockerCommand:        strings.Join(groups, Separator),
		EnvironmentVariables: env,
		VolumeMounts:         mounts,
		PortMappings:         ports,
		AcceleratorFlag:      AcceleratorFlag,
		EngineFlags:          flags,
		Image:                cfg.Engine.Image,
	}
}

func modelDir(cfg Config) string {
	return cfg.Parameters.ModelPath + "/" + cfg.Model.ID
}

func vllmFlags(cfg Config) []string {
	p := cfg.Parameters
	flags := []string{
		"--model " + modelDir(cfg),
		fmt.Sprintf("--tensor-parallel-size %d", p.TensorParallelSize),
		"--gpu-memory-utilization " + FormatFraction(p.GPUMemoryUtilization),
		fmt.Sprintf("--max-model-len %d", p.MaxSeqLen),
		"--host " + bindAll,
		fmt.Sprintf("--port %d", p.Port),
	}
	if p.UseFP16 {
		flags = append(flags, "--dtype half")
	}
	return flags
}

// TensorRT-LLM gets the same length for input and output.
func tensorRTLLMFlags(cfg Config) []string {
	p := cfg.Parameters
	return []string{
		"--model_dir " + modelDir(cfg),
		fmt.Sprintf("--max_batch_size %d", p.BatchSize),
		fmt.Sprintf("--max_input_len %d", p.MaxSeqLen),
		fmt.Sprintf("--max_output_len %d", p.MaxSeqLen),
		"--host " + bindAll,
		fmt.Sprintf("--port %d", p.Port),
	}
}

func transformersFlags(cfg Config) []string {
	p := cfg.Parameters
	dtype := "float32"
	if p.UseFP16 {
		dtype = "float16"
	}
	return []string{
		"python -m transformers.pipeline",
		"--model_name_or_path " + modelDir(cfg),
		"--device_map auto",
		"--torch_dtype " + dtype,
		fmt.Sprintf("--max_length %d", p.MaxSeqLen),
		fmt.Sprintf("--batch_size %d", p.BatchSize),
	}
}

func ollamaFlags(cfg Config) []string {
	return []string{
		"serve",
		fmt.Sprintf("--host %s:%d", bindAll, cfg.Parameters.Port),
	}
}
