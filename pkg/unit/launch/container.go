package launch

import (
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// ContainerSpec is the Docker Engine API create body equivalent to the
// rendered docker run command.
type ContainerSpec struct {
	Config     *container.Config     `json:"config" yaml:"config"`
	HostConfig *container.HostConfig `json:"host_config" yaml:"host_config"`
}

// ContainerSpec converts the structured command into create-container
// options. The accelerator flag maps to an nvidia device request for all GPUs.
func (g GeneratedCommand) ContainerSpec() (ContainerSpec, error) {
	specs := make([]string, 0, len(g.PortMappings))
	for _, m := range g.PortMappings {
		specs = append(specs, strings.TrimPrefix(m, "-p "))
	}
	exposed, bindings, err := nat.ParsePortSpecs(specs)
	if err != nil {
		return ContainerSpec{}, ErrRenderFailed.WithDetails("port_mappings", g.PortMappings).WithCause(err)
	}

	binds := make([]string, 0, len(g.VolumeMounts))
	for _, m := range g.VolumeMounts {
		binds = append(binds, strings.TrimPrefix(m, "-v "))
	}

	var cmd []string
	for _, flag := range g.EngineFlags {
		cmd = append(cmd, strings.Fields(flag)...)
	}

	hostCfg := &container.HostConfig{
		Binds:        binds,
		PortBindings: bindings,
	}
	if g.AcceleratorFlag != "" {
		hostCfg.DeviceRequests = []container.DeviceRequest{
			{
				Driver:       "nvidia",
				Count:        -1,
				Capabilities: [][]string{{"gpu"}},
			},
		}
	}

	return ContainerSpec{
		Config: &container.Config{
			Image:        g.Image,
			Cmd:          cmd,
			Env:          g.EnvList(),
			ExposedPorts: exposed,
		},
		HostConfig: hostCfg,
	}, nil
}
