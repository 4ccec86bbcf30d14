package launch

import (
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerSpec(t *testing.T) {
	cmd := Generate(builtinConfig(t, "rtx-4090", "llama-7b", "vllm", scenarioParameters()))

	spec, err := cmd.ContainerSpec()
	require.NoError(t, err)

	assert.Equal(t, "vllm/vllm-openai:latest", spec.Config.Image)
	assert.Equal(t, []string{
		"--model", "/models/llama-7b/llama-7b",
		"--tensor-parallel-size", "1",
		"--gpu-memory-utilization", "0.9",
		"--max-model-len", "4096",
		"--host", "0.0.0.0",
		"--port", "8000",
		"--dtype", "half",
	}, []string(spec.Config.Cmd))
	assert.Equal(t, cmd.EnvList(), spec.Config.Env)

	port := nat.Port("8000/tcp")
	assert.Contains(t, spec.Config.ExposedPorts, port)
	require.Len(t, spec.HostConfig.PortBindings[port], 1)
	assert.Equal(t, "8000", spec.HostConfig.PortBindings[port][0].HostPort)

	assert.Equal(t, []string{"/my/models:/models/llama-7b", "/tmp/.X11-unix:/tmp/.X11-unix:rw"}, spec.HostConfig.Binds)

	require.Len(t, spec.HostConfig.DeviceRequests, 1)
	assert.Equal(t, "nvidia", spec.HostConfig.DeviceRequests[0].Driver)
	assert.Equal(t, -1, spec.HostConfig.DeviceRequests[0].Count)
}

func TestContainerSpec_BadPort(t *testing.T) {
	cmd := GeneratedCommand{PortMappings: []string{"-p not-a-port"}}
	_, err := cmd.ContainerSpec()
	assert.ErrorIs(t, err, ErrRenderFailed)
}
