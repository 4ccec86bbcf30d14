package catalog

import (
	"context"
	"fmt"

	"github.com/jguan/modelrun/pkg/unit"
)

func tierEnum() []any {
	return []any{string(TierEntry), string(TierMid), string(TierHigh), string(TierProfessional)}
}

func categoryEnum() []any {
	return []any{string(CategoryLLM), string(CategoryVision), string(CategoryMultimodal)}
}

func listOutput(key, description string) unit.Schema {
	return unit.Schema{
		Type: "object",
		Properties: map[string]unit.Field{
			key: {
				Name: key,
				Schema: unit.Schema{
					Type:        "array",
					Description: description,
					Items:       &unit.Schema{Type: "object"},
				},
			},
			"total": {Name: "total", Schema: unit.Schema{Type: "number", Description: "Number of entries"}},
		},
	}
}

// ListAcceleratorsQuery lists accelerators, optionally by tier.
type ListAcceleratorsQuery struct {
	catalog *Catalog
}

func NewListAcceleratorsQuery(c *Catalog) *ListAcceleratorsQuery {
	return &ListAcceleratorsQuery{catalog: c}
}

func (q *ListAcceleratorsQuery) Name() string   { return "catalog.list_accelerators" }
func (q *ListAcceleratorsQuery) Domain() string { return "catalog" }
func (q *ListAcceleratorsQuery) Description() string {
	return "List accelerators in declaration order, optionally filtered by tier"
}

func (q *ListAcceleratorsQuery) InputSchema() unit.Schema {
	return unit.Schema{
		Type: "object",
		Properties: map[string]unit.Field{
			"tier": {
				Name: "tier",
				Schema: unit.Schema{
					Type:        "string",
					Description: "Only return accelerators of this tier",
					Enum:        tierEnum(),
				},
			},
		},
	}
}

func (q *ListAcceleratorsQuery) OutputSchema() unit.Schema {
	return listOutput("accelerators", "Accelerator profiles")
}

func (q *ListAcceleratorsQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{"tier": "professional"},
			Output: map[string]any{
				"accelerators": []map[string]any{{"id": "a100-40gb", "name": "NVIDIA A100 40GB", "memory_gb": 40}},
				"total":        4,
			},
			Description: "List data-center accelerators",
		},
	}
}

func (q *ListAcceleratorsQuery) Execute(ctx context.Context, input any) (any, error) {
	in := unit.InputMap(input)
	tier := Tier(unit.StringValue(in, "tier"))
	if tier != "" && !tier.Valid() {
		return nil, ErrInvalidInput.WithDetails("tier", string(tier))
	}
	accs := q.catalog.AcceleratorsByTier(tier)
	return map[string]any{"accelerators": accs, "total": len(accs)}, nil
}

// ListModelsQuery lists models, optionally by category.
type ListModelsQuery struct {
	catalog *Catalog
}

func NewListModelsQuery(c *Catalog) *ListModelsQuery {
	return &ListModelsQuery{catalog: c}
}

func (q *ListModelsQuery) Name() string   { return "catalog.list_models" }
func (q *ListModelsQuery) Domain() string { return "catalog" }
func (q *ListModelsQuery) Description() string {
	return "List models in declaration order, optionally filtered by category"
}

func (q *ListModelsQuery) InputSchema() unit.Schema {
	return unit.Schema{
		Type: "object",
		Properties: map[string]unit.Field{
			"category": {
				Name: "category",
				Schema: unit.Schema{
					Type:        "string",
					Description: "Only return models of this category",
					Enum:        categoryEnum(),
				},
			},
		},
	}
}

func (q *ListModelsQuery) OutputSchema() unit.Schema {
	return listOutput("models", "Model profiles")
}

func (q *ListModelsQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{"category": "vision"},
			Output: map[string]any{
				"models": []map[string]any{{"id": "stable-diffusion-xl", "min_memory_gb": 8}},
				"total":  2,
			},
			Description: "List image generation models",
		},
	}
}

func (q *ListModelsQuery) Execute(ctx context.Context, input any) (any, error) {
	in := unit.InputMap(input)
	category := Category(unit.StringValue(in, "category"))
	if category != "" && !category.Valid() {
		return nil, ErrInvalidInput.WithDetails("category", string(category))
	}
	models := q.catalog.ModelsByCategory(category)
	return map[string]any{"models": models, "total": len(models)}, nil
}

// ListEnginesQuery lists every engine.
type ListEnginesQuery struct {
	catalog *Catalog
}

func NewListEnginesQuery(c *Catalog) *ListEnginesQuery {
	return &ListEnginesQuery{catalog: c}
}

func (q *ListEnginesQuery) Name() string        { return "catalog.list_engines" }
func (q *ListEnginesQuery) Domain() string      { return "catalog" }
func (q *ListEnginesQuery) Description() string { return "List inference engines in declaration order" }

func (q *ListEnginesQuery) InputSchema() unit.Schema {
	return unit.Schema{Type: "object"}
}

func (q *ListEnginesQuery) OutputSchema() unit.Schema {
	return listOutput("engines", "Engine profiles")
}

func (q *ListEnginesQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{},
			Output: map[string]any{
				"engines": []map[string]any{{"id": "vllm", "image": "vllm/vllm-openai:latest"}},
				"total":   4,
			},
			Description: "List all engines",
		},
	}
}

func (q *ListEnginesQuery) Execute(ctx context.Context, input any) (any, error) {
	engines := q.catalog.Engines()
	return map[string]any{"engines": engines, "total": len(engines)}, nil
}

func idInput(description string) unit.Schema {
	return unit.ObjectSchema(map[string]unit.Field{
		"id": unit.StringField("id", description),
	}, "id")
}

func requireID(input any) (string, error) {
	id := unit.StringValue(unit.InputMap(input), "id")
	if id == "" {
		return "", ErrInvalidInput.WithDetails("field", "id")
	}
	return id, nil
}

// GetAcceleratorQuery looks one accelerator up by id.
type GetAcceleratorQuery struct {
	catalog *Catalog
}

func NewGetAcceleratorQuery(c *Catalog) *GetAcceleratorQuery {
	return &GetAcceleratorQuery{catalog: c}
}

func (q *GetAcceleratorQuery) Name() string        { return "catalog.get_accelerator" }
func (q *GetAcceleratorQuery) Domain() string      { return "catalog" }
func (q *GetAcceleratorQuery) Description() string { return "Get an accelerator profile by id" }
func (q *GetAcceleratorQuery) InputSchema() unit.Schema {
	return idInput("Accelerator id")
}
func (q *GetAcceleratorQuery) OutputSchema() unit.Schema { return unit.Schema{Type: "object"} }

func (q *GetAcceleratorQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input:       map[string]any{"id": "rtx-4090"},
			Output:      map[string]any{"id": "rtx-4090", "name": "NVIDIA RTX 4090", "memory_gb": 24, "tier": "high"},
			Description: "Get the RTX 4090 profile",
		},
	}
}

func (q *GetAcceleratorQuery) Execute(ctx context.Context, input any) (any, error) {
	id, err := requireID(input)
	if err != nil {
		return nil, err
	}
	return q.catalog.LookupAccelerator(id)
}

// GetModelQuery looks one model up by id.
type GetModelQuery struct {
	catalog *Catalog
}

func NewGetModelQuery(c *Catalog) *GetModelQuery {
	return &GetModelQuery{catalog: c}
}

func (q *GetModelQuery) Name() string              { return "catalog.get_model" }
func (q *GetModelQuery) Domain() string            { return "catalog" }
func (q *GetModelQuery) Description() string       { return "Get a model profile by id" }
func (q *GetModelQuery) InputSchema() unit.Schema  { return idInput("Model id") }
func (q *GetModelQuery) OutputSchema() unit.Schema { return unit.Schema{Type: "object"} }

func (q *GetModelQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input:       map[string]any{"id": "llama-7b"},
			Output:      map[string]any{"id": "llama-7b", "size": "7B", "min_memory_gb": 14, "category": "llm"},
			Description: "Get the Llama 2 7B profile",
		},
	}
}

func (q *GetModelQuery) Execute(ctx context.Context, input any) (any, error) {
	id, err := requireID(input)
	if err != nil {
		return nil, err
	}
	return q.catalog.LookupModel(id)
}

// GetEngineQuery looks one engine up by id.
type GetEngineQuery struct {
	catalog *Catalog
}

func NewGetEngineQuery(c *Catalog) *GetEngineQuery {
	return &GetEngineQuery{catalog: c}
}

func (q *GetEngineQuery) Name() string              { return "catalog.get_engine" }
func (q *GetEngineQuery) Domain() string            { return "catalog" }
func (q *GetEngineQuery) Description() string       { return "Get an engine profile by id" }
func (q *GetEngineQuery) InputSchema() unit.Schema  { return idInput("Engine id") }
func (q *GetEngineQuery) OutputSchema() unit.Schema { return unit.Schema{Type: "object"} }

func (q *GetEngineQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input:       map[string]any{"id": "vllm"},
			Output:      map[string]any{"id": "vllm", "image": "vllm/vllm-openai:latest"},
			Description: "Get the vLLM profile",
		},
	}
}

func (q *GetEngineQuery) Execute(ctx context.Context, input any) (any, error) {
	id, err := requireID(input)
	if err != nil {
		return nil, err
	}
	return q.catalog.LookupEngine(id)
}

// CompatibleModelsQuery returns the models an accelerator can hold.
type CompatibleModelsQuery struct {
	catalog *Catalog
}

func NewCompatibleModelsQuery(c *Catalog) *CompatibleModelsQuery {
	return &CompatibleModelsQuery{catalog: c}
}

func (q *CompatibleModelsQuery) Name() string   { return "catalog.compatible_models" }
func (q *CompatibleModelsQuery) Domain() string { return "catalog" }
func (q *CompatibleModelsQuery) Description() string {
	return "List models whose memory requirement fits the accelerator, optionally restricted to an engine"
}

func (q *CompatibleModelsQuery) InputSchema() unit.Schema {
	return unit.ObjectSchema(map[string]unit.Field{
		"accelerator": unit.StringField("accelerator", "Accelerator id"),
		"engine":      unit.StringField("engine", "Only models supported by this engine id"),
	}, "accelerator")
}

func (q *CompatibleModelsQuery) OutputSchema() unit.Schema {
	return listOutput("models", "Compatible models")
}

func (q *CompatibleModelsQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{"accelerator": "rtx-3060"},
			Output: map[string]any{
				"models": []map[string]any{{"id": "chatglm-6b"}, {"id": "stable-diffusion-xl"}, {"id": "stable-diffusion-2.1"}},
				"total":  3,
			},
			Description: "Models that fit a 12 GB card",
		},
	}
}

func (q *CompatibleModelsQuery) Execute(ctx context.Context, input any) (any, error) {
	in := unit.InputMap(input)
	accID := unit.StringValue(in, "accelerator")
	if accID == "" {
		return nil, ErrInvalidInput.WithDetails("field", "accelerator")
	}
	acc, err := q.catalog.LookupAccelerator(accID)
	if err != nil {
		return nil, err
	}
	models := q.catalog.CompatibleModels(acc, unit.StringValue(in, "engine"))
	return map[string]any{"models": models, "total": len(models)}, nil
}

// CompatibleEnginesQuery returns the engines usable on an accelerator,
// optionally for a specific model.
type CompatibleEnginesQuery struct {
	catalog *Catalog
}

func NewCompatibleEnginesQuery(c *Catalog) *CompatibleEnginesQuery {
	return &CompatibleEnginesQuery{catalog: c}
}

func (q *CompatibleEnginesQuery) Name() string   { return "catalog.compatible_engines" }
func (q *CompatibleEnginesQuery) Domain() string { return "catalog" }
func (q *CompatibleEnginesQuery) Description() string {
	return "List engines supporting the accelerator (and model, if given), flagging recommended ones"
}

func (q *CompatibleEnginesQuery) InputSchema() unit.Schema {
	return unit.ObjectSchema(map[string]unit.Field{
		"accelerator": unit.StringField("accelerator", "Accelerator id"),
		"model":       unit.StringField("model", "Only engines this model supports"),
	}, "accelerator")
}

func (q *CompatibleEnginesQuery) OutputSchema() unit.Schema {
	return listOutput("engines", "Compatible engines with a recommended flag")
}

func (q *CompatibleEnginesQuery) Examples() []unit.Example {
	return []unit.Example{
		{
			Input: map[string]any{"accelerator": "rtx-4090", "model": "llama-7b"},
			Output: map[string]any{
				"engines": []map[string]any{
					{"id": "vllm", "recommended": true},
					{"id": "tensorrt-llm", "recommended": true},
					{"id": "transformers", "recommended": true},
				},
				"total": 3,
			},
			Description: "Engines for Llama 2 7B on an RTX 4090",
		},
	}
}

func (q *CompatibleEnginesQuery) Execute(ctx context.Context, input any) (any, error) {
	in := unit.InputMap(input)
	accID := unit.StringValue(in, "accelerator")
	if accID == "" {
		return nil, ErrInvalidInput.WithDetails("field", "accelerator")
	}
	acc, err := q.catalog.LookupAccelerator(accID)
	if err != nil {
		return nil, err
	}

	var model *Model
	if modelID := unit.StringValue(in, "model"); modelID != "" {
		m, err := q.catalog.LookupModel(modelID)
		if err != nil {
			return nil, fmt.Errorf("compatible engines for %s: %w", accID, err)
		}
		model = &m
	}

	engines := q.catalog.EngineChoices(acc, model)
	return map[string]any{"engines": engines, "total": len(engines)}, nil
}

// Queries returns every catalog query bound to c.
func Queries(c *Catalog) []unit.Query {
	return []unit.Query{
		NewListAcceleratorsQuery(c),
		NewListModelsQuery(c),
		NewListEnginesQuery(c),
		NewGetAcceleratorQuery(c),
		NewGetModelQuery(c),
		NewGetEngineQuery(c),
		NewCompatibleModelsQuery(c),
		NewCompatibleEnginesQuery(c),
	}
}
