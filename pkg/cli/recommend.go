package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func NewRecommendCommand(root *RootCommand) *cobra.Command {
	var (
		accelerator string
		model       string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend launch parameters",
		Long: `Recommend batch size, sequence length, memory fraction and tensor
parallelism for an accelerator. Accelerators without tuned values get the
baseline. The parameters shown are the configured defaults with the
recommendation merged in.`,
		Example: `  modelrun recommend --accelerator rtx-4090 --model llama-7b
  modelrun recommend --accelerator a100-80gb -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd.Context(), root, accelerator, model)
		},
	}

	cmd.Flags().StringVar(&accelerator, "accelerator", "", "Accelerator id (required)")
	cmd.Flags().StringVar(&model, "model", "", "Model id")
	_ = cmd.MarkFlagRequired("accelerator")

	return cmd
}

func runRecommend(ctx context.Context, root *RootCommand, accelerator, model string) error {
	opts := root.OutputOptions()

	data, err := root.query(ctx, "launch.recommend", withOptional(map[string]any{
		"accelerator": accelerator,
	}, "model", model))
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if opts.Format == OutputTable {
		m, _ := data.(map[string]any)
		return PrintOutput(m["parameters"], opts)
	}
	return PrintOutput(data, opts)
}
