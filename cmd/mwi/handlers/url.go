package handlers

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewURLCmd seeds a land with depth-0 expressions.
func NewURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addurl LAND URLS",
		Short: "Add comma-separated seed URLs to a land",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			urls := strings.Split(args[1], ",")
			ok, processed, errs, err := svc.AddURL(cmd.Context(), args[0], urls)
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	return cmd
}
