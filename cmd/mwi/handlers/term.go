package handlers

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewTermCmd adds dictionary terms to a land.
func NewTermCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addterm LAND TERMS",
		Short: "Add comma-separated terms to a land's dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			terms := strings.Split(args[1], ",")
			ok, processed, errs, err := svc.AddTerm(cmd.Context(), args[0], terms)
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	return cmd
}
