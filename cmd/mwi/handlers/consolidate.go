package handlers

import (
	"github.com/spf13/cobra"

	"mwi/internal/land"
)

// NewConsolidateCmd re-scores a land's fetched expressions.
func NewConsolidateCmd() *cobra.Command {
	var depth, minRelevance int

	cmd := &cobra.Command{
		Use:   "consolidate LAND",
		Short: "Recompute relevance scores for every fetched expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, processed, errs, err := svc.Consolidate(cmd.Context(), args[0], land.ConsolidateParams{
				Depth:        depth,
				MinRelevance: minRelevance,
			})
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", -1, "restrict to a specific crawl depth (-1 = any depth)")
	cmd.Flags().IntVar(&minRelevance, "minrel", -1, "restrict to expressions at or above this current relevance (-1 = no pre-filter)")
	return cmd
}
