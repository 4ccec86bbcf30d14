package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jguan/modelrun/pkg/infra/logger"
	"github.com/jguan/modelrun/pkg/unit/catalog"
	"github.com/jguan/modelrun/pkg/unit/launch"
	"github.com/jguan/modelrun/pkg/unit/selection"
)

const (
	FormatCommand   = "command"
	FormatDockerAPI = "docker-api"
)

type generateOptions struct {
	accelerator string
	model       string
	engine      string
	noRecommend bool
	copy        bool
	format      string
	params      map[string]any
}

// parameterFlags maps flag names to the parameter keys launch.generate takes.
var parameterFlags = map[string]string{
	"batch-size":      "batch_size",
	"max-seq-len":     "max_seq_len",
	"fp16":            "use_fp16",
	"mem-util":        "gpu_memory_utilization",
	"tensor-parallel": "tensor_parallel_size",
	"port":            "port",
	"model-path":      "model_path",
}

// changedParameters returns the parameter values for the flags set on the
// command line. Flags left at their default do not override anything.
func changedParameters(flags *pflag.FlagSet, values map[string]any) map[string]any {
	params := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := parameterFlags[f.Name]; ok {
			params[key] = values[f.Name]
		}
	})
	return params
}

func NewGenerateCommand(root *RootCommand) *cobra.Command {
	o := &generateOptions{}
	var (
		batchSize      int
		maxSeqLen      int
		fp16           bool
		memUtil        float64
		tensorParallel int
		port           int
		modelPath      string
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a docker run command",
		Long: `Generate a docker run command for an accelerator, model and engine.

Parameters start from the configured defaults, the accelerator
recommendation is merged in (unless --no-recommend), and flags given on the
command line win over both.`,
		Example: `  # vLLM serving Llama 2 7B on an RTX 4090
  modelrun generate --accelerator rtx-4090 --model llama-7b --engine vllm

  # Override the port and copy the command to the clipboard
  modelrun generate --accelerator a100-80gb --model llama-13b --engine vllm --port 9000 --copy

  # Docker Engine API create body instead of a shell command
  modelrun generate --accelerator rtx-4090 --model llama-7b --engine tensorrt-llm --format docker-api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]any{
				"batch-size":      batchSize,
				"max-seq-len":     maxSeqLen,
				"fp16":            fp16,
				"mem-util":        memUtil,
				"tensor-parallel": tensorParallel,
				"port":            port,
				"model-path":      modelPath,
			}
			o.params = changedParameters(cmd.Flags(), values)
			return runGenerate(cmd.Context(), root, o)
		},
	}

	defaults := launch.DefaultParameters()
	flags := cmd.Flags()
	flags.StringVar(&o.accelerator, "accelerator", "", "Accelerator id")
	flags.StringVar(&o.model, "model", "", "Model id")
	flags.StringVar(&o.engine, "engine", "", "Engine id")
	flags.IntVar(&batchSize, "batch-size", defaults.BatchSize, "Maximum concurrent sequences")
	flags.IntVar(&maxSeqLen, "max-seq-len", defaults.MaxSeqLen, fmt.Sprintf("Maximum sequence length %v", launch.SeqLenOptions))
	flags.BoolVar(&fp16, "fp16", defaults.UseFP16, "Use half precision")
	flags.Float64Var(&memUtil, "mem-util", defaults.GPUMemoryUtilization, "Accelerator memory fraction (0, 0.95]")
	flags.IntVar(&tensorParallel, "tensor-parallel", defaults.TensorParallelSize, fmt.Sprintf("Tensor parallel size %v", launch.TensorParallelOptions))
	flags.IntVar(&port, "port", defaults.Port, "Host and container port")
	flags.StringVar(&modelPath, "model-path", defaults.ModelPath, "Model directory inside the container")
	flags.BoolVar(&o.noRecommend, "no-recommend", false, "Do not merge the accelerator recommendation")
	flags.BoolVar(&o.copy, "copy", false, "Copy the command to the clipboard")
	flags.StringVar(&o.format, "format", FormatCommand, "Table output form (command, docker-api)")

	return cmd
}

func runGenerate(ctx context.Context, root *RootCommand, o *generateOptions) error {
	opts := root.OutputOptions()

	if o.format != FormatCommand && o.format != FormatDockerAPI {
		return fmt.Errorf("invalid --format %q (valid: %s, %s)", o.format, FormatCommand, FormatDockerAPI)
	}

	input := map[string]any{
		"accelerator": o.accelerator,
		"model":       o.model,
		"engine":      o.engine,
		"recommend":   !o.noRecommend,
	}
	if len(o.params) > 0 {
		input["parameters"] = o.params
	}

	data, err := root.query(ctx, "launch.generate", input)
	if err != nil {
		if hint := selectionHint(root.Catalog(), o.accelerator, o.model, o.engine); hint != "" {
			return fmt.Errorf("generate: %w\n%s", err, hint)
		}
		return fmt.Errorf("generate: %w", err)
	}

	m, _ := data.(map[string]any)
	cmd, _ := m["command"].(launch.GeneratedCommand)

	if o.copy {
		copyCommand(ctx, root, cmd.DockerCommand)
	}

	switch {
	case opts.Format != OutputTable:
		return PrintOutput(data, opts)
	case o.format == FormatDockerAPI:
		if opts.Quiet {
			return nil
		}
		out, err := formatJSON(m["container"])
		if err != nil {
			return err
		}
		fmt.Fprint(opts.Writer, out)
		return nil
	default:
		return PrintOutput(cmd.DockerCommand, opts)
	}
}

// copyCommand copies text to the clipboard. Failure is reported as a warning;
// the command is still printed.
func copyCommand(ctx context.Context, root *RootCommand, text string) {
	opts := root.OutputOptions()
	if root.clipboard == nil {
		PrintWarning("clipboard unavailable; copy the command manually", opts)
		return
	}
	if err := root.clipboard.Copy(ctx, text); err != nil {
		logger.Warn("clipboard copy failed", "error", err)
		PrintWarning(fmt.Sprintf("could not copy to clipboard (%v); copy the command manually", err), opts)
		return
	}
	if !opts.Quiet {
		fmt.Fprintln(opts.errWriter(), "Command copied to clipboard")
	}
}

// selectionHint describes what is still missing from a partial selection and
// the choices available for the next step. Empty when all ids were given.
func selectionHint(c *catalog.Catalog, accID, modelID, engineID string) string {
	if c == nil || (accID != "" && modelID != "" && engineID != "") {
		return ""
	}

	sel := selection.New(launch.DefaultParameters())
	if acc, ok := c.Accelerator(accID); ok {
		sel = sel.WithAccelerator(acc)
	}
	if m, ok := c.Model(modelID); ok {
		sel = sel.WithModel(m)
	}
	if e, ok := c.Engine(engineID); ok {
		sel = sel.WithEngine(e)
	}

	switch {
	case sel.Accelerator == nil:
		var ids []string
		for _, a := range c.Accelerators() {
			ids = append(ids, a.ID)
		}
		return "choose --accelerator: " + strings.Join(ids, ", ")
	case sel.Model == nil:
		var ids []string
		for _, m := range sel.AvailableModels(c) {
			ids = append(ids, m.ID)
		}
		if len(ids) == 0 {
			return fmt.Sprintf("no model fits %s", sel.Accelerator.ID)
		}
		return fmt.Sprintf("choose --model (fits %s): %s", sel.Accelerator.ID, strings.Join(ids, ", "))
	case sel.Engine == nil:
		var ids []string
		for _, e := range sel.AvailableEngines(c) {
			id := e.ID
			if e.Recommended {
				id += " (recommended)"
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return fmt.Sprintf("no engine supports %s with %s", sel.Accelerator.ID, sel.Model.ID)
		}
		return "choose --engine: " + strings.Join(ids, ", ")
	}
	return ""
}
