package handlers

import (
	"github.com/spf13/cobra"

	"mwi/internal/core"
	"mwi/internal/land"
)

// NewReadableCmd extracts main-content text from fetched HTML.
func NewReadableCmd() *cobra.Command {
	var force bool
	var mergePolicy string
	var llmEnabled bool

	cmd := &cobra.Command{
		Use:   "readable LAND",
		Short: "Extract and merge readable text, optionally gating relevance through the LLM provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, processed, errs, err := svc.RunReadablePipeline(cmd.Context(), args[0], land.ReadablePipelineParams{
				Force:       force,
				MergePolicy: core.MergePolicy(mergePolicy),
				LLMEnabled:  llmEnabled,
			})
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "re-extract even when readable text already exists")
	cmd.Flags().StringVar(&mergePolicy, "merge-policy", string(core.MergeSmart), "smart_merge | overwrite | mercury_priority")
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "submit long-enough readable text to the LLM relevance gate")
	return cmd
}
