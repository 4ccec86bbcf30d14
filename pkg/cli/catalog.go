package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jguan/modelrun/pkg/unit/catalog"
)

func NewCatalogCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse accelerators, models and engines",
		Long: `Browse the accelerator, model and inference engine catalog.

Listings keep catalog order. Filters narrow the list to entries that fit
together: a model fits an accelerator when its minimum memory is at most the
accelerator's memory, and an engine fits when it lists the accelerator.`,
	}

	cmd.AddCommand(NewCatalogAcceleratorsCommand(root))
	cmd.AddCommand(NewCatalogModelsCommand(root))
	cmd.AddCommand(NewCatalogEnginesCommand(root))
	cmd.AddCommand(NewCatalogGetCommand(root))

	return cmd
}

func NewCatalogAcceleratorsCommand(root *RootCommand) *cobra.Command {
	var tier string

	cmd := &cobra.Command{
		Use:     "accelerators",
		Aliases: []string{"accs", "gpus"},
		Short:   "List accelerators",
		Example: `  # List all accelerators
  modelrun catalog accelerators

  # List high-end cards only
  modelrun catalog accelerators --tier high`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogAccelerators(cmd.Context(), root, tier)
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "", "Filter by tier (entry, mid, high, professional)")

	return cmd
}

func runCatalogAccelerators(ctx context.Context, root *RootCommand, tier string) error {
	data, err := root.query(ctx, "catalog.list_accelerators", withOptional(map[string]any{}, "tier", tier))
	if err != nil {
		return fmt.Errorf("list accelerators: %w", err)
	}

	return printList(root.OutputOptions(), data, acceleratorTable(listOf[catalog.Accelerator](data, "accelerators")))
}

func NewCatalogModelsCommand(root *RootCommand) *cobra.Command {
	var (
		accelerator string
		engine      string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models",
		Example: `  # Models that fit an RTX 3060
  modelrun catalog models --accelerator rtx-3060

  # LLMs that vLLM can serve on an A100
  modelrun catalog models --accelerator a100-80gb --engine vllm --category llm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogModels(cmd.Context(), root, accelerator, engine, category)
		},
	}

	cmd.Flags().StringVar(&accelerator, "accelerator", "", "Only models that fit this accelerator")
	cmd.Flags().StringVar(&engine, "engine", "", "Only models this engine supports")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (llm, vision, multimodal)")

	return cmd
}

func runCatalogModels(ctx context.Context, root *RootCommand, accelerator, engine, category string) error {
	var (
		data any
		err  error
	)
	if accelerator != "" {
		data, err = root.query(ctx, "catalog.compatible_models", withOptional(map[string]any{
			"accelerator": accelerator,
		}, "engine", engine))
	} else {
		data, err = root.query(ctx, "catalog.list_models", withOptional(map[string]any{}, "category", category))
	}
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	models := listOf[catalog.Model](data, "models")
	if accelerator != "" && category != "" {
		if !catalog.Category(category).Valid() {
			return fmt.Errorf("list models: unknown category %q", category)
		}
		models = filter(models, func(m catalog.Model) bool { return m.Category == catalog.Category(category) })
		data = listData("models", models)
	}
	if accelerator == "" && engine != "" {
		models = filter(models, func(m catalog.Model) bool { return m.SupportsEngine(engine) })
		data = listData("models", models)
	}

	return printList(root.OutputOptions(), data, modelTable(models))
}

func NewCatalogEnginesCommand(root *RootCommand) *cobra.Command {
	var (
		accelerator string
		model       string
	)

	cmd := &cobra.Command{
		Use:   "engines",
		Short: "List inference engines",
		Long: `List inference engines.

With --accelerator the list is restricted to engines supporting it and each
engine is flagged when the accelerator recommends it.`,
		Example: `  # Engines for Llama 2 7B on an RTX 4090
  modelrun catalog engines --accelerator rtx-4090 --model llama-7b`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogEngines(cmd.Context(), root, accelerator, model)
		},
	}

	cmd.Flags().StringVar(&accelerator, "accelerator", "", "Only engines supporting this accelerator")
	cmd.Flags().StringVar(&model, "model", "", "Only engines this model supports")

	return cmd
}

func runCatalogEngines(ctx context.Context, root *RootCommand, accelerator, model string) error {
	opts := root.OutputOptions()

	if accelerator != "" {
		data, err := root.query(ctx, "catalog.compatible_engines", withOptional(map[string]any{
			"accelerator": accelerator,
		}, "model", model))
		if err != nil {
			return fmt.Errorf("list engines: %w", err)
		}
		return printList(opts, data, engineChoiceTable(listOf[catalog.EngineChoice](data, "engines")))
	}

	data, err := root.query(ctx, "catalog.list_engines", map[string]any{})
	if err != nil {
		return fmt.Errorf("list engines: %w", err)
	}
	engines := listOf[catalog.Engine](data, "engines")
	if model != "" {
		m, err := root.Catalog().LookupModel(model)
		if err != nil {
			return fmt.Errorf("list engines: %w", err)
		}
		engines = filter(engines, func(e catalog.Engine) bool { return m.SupportsEngine(e.ID) })
		data = listData("engines", engines)
	}
	return printList(opts, data, engineTable(engines))
}

var getUnits = map[string]string{
	"accelerator": "catalog.get_accelerator",
	"model":       "catalog.get_model",
	"engine":      "catalog.get_engine",
}

func NewCatalogGetCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <accelerator|model|engine> <id>",
		Short: "Show one catalog entry",
		Example: `  modelrun catalog get accelerator rtx-4090
  modelrun catalog get engine vllm -o yaml`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"accelerator", "model", "engine"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogGet(cmd.Context(), root, args[0], args[1])
		},
	}

	return cmd
}

func runCatalogGet(ctx context.Context, root *RootCommand, kind, id string) error {
	unitName, ok := getUnits[strings.ToLower(kind)]
	if !ok {
		return fmt.Errorf("unknown kind %q (valid: accelerator, model, engine)", kind)
	}

	data, err := root.query(ctx, unitName, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("get %s: %w", kind, err)
	}

	return PrintOutput(data, root.OutputOptions())
}

// printList prints the table form for table output and the full query data
// (list plus total) otherwise.
func printList(opts *OutputOptions, data any, table Tabular) error {
	if opts.Format == OutputTable {
		return PrintOutput(table, opts)
	}
	return PrintOutput(data, opts)
}

// withOptional sets key only when value is non-empty.
func withOptional(input map[string]any, key, value string) map[string]any {
	if value != "" {
		input[key] = value
	}
	return input
}

func listOf[T any](data any, key string) []T {
	m, _ := data.(map[string]any)
	items, _ := m[key].([]T)
	return items
}

func listData[T any](key string, items []T) map[string]any {
	return map[string]any{key: items, "total": len(items)}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

type acceleratorTable []catalog.Accelerator

func (t acceleratorTable) Header() []string {
	return []string{"ID", "NAME", "MEMORY", "COMPUTE", "TIER", "RECOMMENDED ENGINES"}
}

func (t acceleratorTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, a := range t {
		rows[i] = []string{a.ID, a.Name, gb(a.MemoryGB), a.ComputeCapability, string(a.Tier), strings.Join(a.RecommendedEngines, ",")}
	}
	return rows
}

type modelTable []catalog.Model

func (t modelTable) Header() []string {
	return []string{"ID", "NAME", "SIZE", "MIN MEMORY", "CATEGORY", "ENGINES"}
}

func (t modelTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, m := range t {
		rows[i] = []string{m.ID, m.Name, m.Size, gb(m.MinMemoryGB), string(m.Category), strings.Join(m.SupportedEngines, ",")}
	}
	return rows
}

type engineTable []catalog.Engine

func (t engineTable) Header() []string {
	return []string{"ID", "NAME", "IMAGE", "FEATURES"}
}

func (t engineTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, e := range t {
		rows[i] = []string{e.ID, e.Name, e.Image, strings.Join(e.Features, ",")}
	}
	return rows
}

type engineChoiceTable []catalog.EngineChoice

func (t engineChoiceTable) Header() []string {
	return []string{"ID", "NAME", "RECOMMENDED", "IMAGE"}
}

func (t engineChoiceTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, e := range t {
		rec := ""
		if e.Recommended {
			rec = "yes"
		}
		rows[i] = []string{e.ID, e.Name, rec, e.Image}
	}
	return rows
}

func gb(n int) string {
	return strconv.Itoa(n) + "GB"
}
