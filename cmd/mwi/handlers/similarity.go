package handlers

import (
	"github.com/spf13/cobra"

	"mwi/internal/core"
	"mwi/internal/land"
)

// NewSimilarityCmd computes ParagraphSimilarity rows via exact cosine
// or cosine-LSH.
func NewSimilarityCmd() *cobra.Command {
	var method string
	var threshold float64
	var topK, lshBits, maxPairs, minRelevance int

	cmd := &cobra.Command{
		Use:   "similarity LAND",
		Short: "Compute paragraph-to-paragraph similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, processed, errs, err := svc.RunSimilarity(cmd.Context(), args[0], land.SimilarityParams{
				Method:       core.SimilarityMethodParam(method),
				Threshold:    threshold,
				TopK:         topK,
				LSHBits:      lshBits,
				MaxPairs:     maxPairs,
				MinRelevance: minRelevance,
			})
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	cmd.Flags().StringVar(&method, "method", string(core.MethodCosine), "cosine | cosine_lsh")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "minimum cosine score to keep (exact cosine only)")
	cmd.Flags().IntVar(&topK, "top-k", 10, "neighbors kept per source paragraph (cosine_lsh only)")
	cmd.Flags().IntVar(&lshBits, "lsh-bits", 20, "hyperplane count for the LSH signature (cosine_lsh only)")
	cmd.Flags().IntVar(&maxPairs, "max-pairs", 0, "cap on total similarity rows emitted (cosine_lsh only, 0 = unbounded)")
	cmd.Flags().IntVar(&minRelevance, "minrel", -1, "only compare paragraphs from expressions at or above this relevance")
	return cmd
}
