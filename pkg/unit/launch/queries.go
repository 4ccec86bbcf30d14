package launch

import (
	"context"
	"fmt"

	"github.com/jguan/modelrun/pkg/unit"
	"github.com/jguan/modelrun/pkg/unit/catalog"
	"github.com/jguan/modelrun/pkg/unit/ptrs"
)

func parametersSchema() unit.Schema {
	return unit.ObjectSchema(map[string]unit.Field{
		"batch_size":             unit.NumberField("batch_size", "Batch size", ptrs.Float64(1), nil),
		"max_seq_len":            unit.NumberField("max_seq_len", "Maximum sequence length", ptrs.Float64(1024), ptrs.Float64(16384)),
		"use_fp16":               unit.BooleanField("use_fp16", "Run in half precision"),
		// The lower bound is exclusive, so Parameters.Validate owns it.
		"gpu_memory_utilization": unit.NumberField("gpu_memory_utilization", "Fraction of accelerator memory to use, in (0, 0.95]", nil, ptrs.Float64(0.95)),
		"tensor_parallel_size":   unit.NumberField("tensor_parallel_size", "Tensor parallel degree", ptrs.Float64(1), ptrs.Float64(8)),
		"port":                   unit.NumberField("port", "Serving port", ptrs.Float64(1), ptrs.Float64(65535)),
		"model_path":             unit.StringField("model_path", "Model directory inside the container"),
	})
}

// RecommendQuery suggests parameters for an accelerator/model pair.
type RecommendQuery struct {
	defaults Parameters
}

func NewRecommendQuery(defaults Parameters) *RecommendQuery {
	return &RecommendQuery{defaults: defaults}
}

func (q *RecommendQuery) Name() string   { return "launch.recommend" }
func (q *RecommendQuery) Domain() string { return "launch" }
func (q *RecommendQuery) Description() string {
	return "Recommend launch parameters for an accelerator and model"
}

func (q *RecommendQuery) InputSchema() unit.Schema {
	return unit.ObjectSchema(map[string]unit.Field{
		"accelerator": unit.StringField("accelerator", "Accelerator id"),
		"model":       unit.StringField("model", "Model id"),
	}, "accelerator")
}

func (q *RecommendQuery) OutputSchema() unit.Schema {
	return unit.Schema{
		Type: "object",
		Properties: map[string]unit.Field{
			"recommendation": {Name: "recommendation", Schema: unit.Schema{Type: "object", Description: "Suggested values"}},
			"parameters":     {Name: "parameters", Schema: unit.Schema{Type: "object", Description: "Defaults with the recommendation merged"}},
		},
	}
}

func (q *RecommendQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{"accelerator": "rtx-4090", "model": "llama-7b"},
			Output: map[string]any{
				"recommendation": map[string]any{"batch_size": 4, "max_seq_len": 4096, "gpu_memory_utilization": 0.9, "tensor_parallel_size": 1},
			},
			Description: "Tuned values for an RTX 4090",
		},
		{
			Input: map[string]any{"accelerator": "rtx-9999"},
			Output: map[string]any{
				"recommendation": map[string]any{"batch_size": 1, "max_seq_len": 2048, "gpu_memory_utilization": 0.8, "tensor_parallel_size": 1},
			},
			Description: "Unknown accelerators get the baseline",
		},
	}
}

func (q *RecommendQuery) Execute(ctx context.Context, input any) (any, error) {
	in := unit.InputMap(input)
	accID := unit.StringValue(in, "accelerator")
	if accID == "" {
		return nil, unit.ErrInvalidInput.WithDetails("field", "accelerator")
	}
	modelID := unit.StringValue(in, "model")

	rec := Recommend(accID, modelID)
	return map[string]any{
		"accelerator":    accID,
		"model":          modelID,
		"recommendation": rec,
		"parameters":     q.defaults.Apply(rec),
	}, nil
}

// GenerateQuery renders the launch command for a complete selection.
type GenerateQuery struct {
	catalog  *catalog.Catalog
	defaults Parameters
}

func NewGenerateQuery(c *catalog.Catalog, defaults Parameters) *GenerateQuery {
	return &GenerateQuery{catalog: c, defaults: defaults}
}

func (q *GenerateQuery) Name() string   { return "launch.generate" }
func (q *GenerateQuery) Domain() string { return "launch" }
func (q *GenerateQuery) Description() string {
	return "Generate a docker run command for an accelerator, model and engine"
}

func (q *GenerateQuery) InputSchema() unit.Schema {
	params := parametersSchema()
	params.Description = "Explicit parameter values; they win over defaults and the recommendation"
	return unit.Schema{
		Type: "object",
		Properties: map[string]unit.Field{
			"accelerator": unit.StringField("accelerator", "Accelerator id"),
			"model":       unit.StringField("model", "Model id"),
			"engine":      unit.StringField("engine", "Engine id"),
			"parameters":  {Name: "parameters", Schema: params},
			"recommend": {
				Name: "recommend",
				Schema: unit.Schema{
					Type:        "boolean",
					Description: "Merge the accelerator recommendation before explicit parameters",
					Default:     true,
				},
			},
		},
	}
}

func (q *GenerateQuery) OutputSchema() unit.Schema {
	return unit.Schema{
		Type: "object",
		Properties: map[string]unit.Field{
			"command":    {Name: "command", Schema: unit.Schema{Type: "object", Description: "Rendered docker run command"}},
			"parameters": {Name: "parameters", Schema: unit.Schema{Type: "object", Description: "Effective parameters"}},
			"container":  {Name: "container", Schema: unit.Schema{Type: "object", Description: "Docker Engine API create body"}},
		},
	}
}

func (q *GenerateQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{"accelerator": "rtx-4090", "model": "llama-7b", "engine": "vllm"},
			Output: map[string]any{
				"command": map[string]any{
					"engine_flags": []string{
						"--model /models/llama-7b",
						"--tensor-parallel-size 1",
						"--gpu-memory-utilization 0.9",
						"--max-model-len 4096",
						"--host 0.0.0.0",
						"--port 8000",
						"--dtype half",
					},
				},
			},
			Description: "vLLM on an RTX 4090",
		},
	}
}

func (q *GenerateQuery) Execute(ctx context.Context, input any) (any, error) {
	in := unit.InputMap(input)
	accID := unit.StringValue(in, "accelerator")
	modelID := unit.StringValue(in, "model")
	engineID := unit.StringValue(in, "engine")

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"accelerator", accID}, {"model", modelID}, {"engine", engineID},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, ErrIncompleteSelection.WithDetails("missing", missing)
	}

	acc, err := q.catalog.LookupAccelerator(accID)
	if err != nil {
		return nil, err
	}
	model, err := q.catalog.LookupModel(modelID)
	if err != nil {
		return nil, err
	}
	engine, err := q.catalog.LookupEngine(engineID)
	if err != nil {
		return nil, err
	}

	params := q.defaults
	if recommend, ok := in["recommend"].(bool); !ok || recommend {
		params = params.Apply(Recommend(accID, modelID))
	}
	if raw, ok := in["parameters"].(map[string]any); ok {
		if params, err = params.MergeMap(raw); err != nil {
			return nil, err
		}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cmd := Generate(Config{Accelerator: acc, Model: model, Engine: engine, Parameters: params})
	spec, err := cmd.ContainerSpec()
	if err != nil {
		return nil, fmt.Errorf("generate %s/%s/%s: %w", accID, modelID, engineID, err)
	}

	return map[string]any{
		"command":    cmd,
		"parameters": params,
		"container":  spec,
	}, nil
}

// Queries returns the launch queries.
func Queries(c *catalog.Catalog, defaults Parameters) []unit.Query {
	return []unit.Query{
		NewRecommendQuery(defaults),
		NewGenerateQuery(c, defaults),
	}
}
