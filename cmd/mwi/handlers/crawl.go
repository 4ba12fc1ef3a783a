package handlers

import (
	"github.com/spf13/cobra"

	"mwi/internal/land"
)

// NewCrawlCmd fetches a land's candidate expressions.
func NewCrawlCmd() *cobra.Command {
	var limit, depth int
	var httpStatus string

	cmd := &cobra.Command{
		Use:   "crawl LAND",
		Short: "Fetch unfetched (or matching) expressions and discover links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, processed, errs, err := svc.Crawl(cmd.Context(), args[0], land.CrawlParams{
				Limit:      limit,
				Depth:      depth,
				HTTPStatus: httpStatus,
			})
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", -1, "maximum expressions to fetch (-1 = unlimited, 0 = process nothing)")
	cmd.Flags().IntVar(&depth, "depth", -1, "restrict to a specific crawl depth (-1 = any depth)")
	cmd.Flags().StringVar(&httpStatus, "http-status", "", "re-crawl only expressions currently at this http status")
	return cmd
}
