package handlers

import (
	"github.com/spf13/cobra"
)

// NewSEORankCmd enriches qualifying expressions through the SEO rank provider.
func NewSEORankCmd() *cobra.Command {
	var minRelevance int

	cmd := &cobra.Command{
		Use:   "seorank LAND",
		Short: "Enrich expressions above a relevance threshold with SEO rank data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, processed, errs, err := svc.ConsolidateSEORank(cmd.Context(), args[0], minRelevance)
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	cmd.Flags().IntVar(&minRelevance, "minrel", 0, "minimum relevance required to qualify")
	return cmd
}
