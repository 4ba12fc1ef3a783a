package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewParagraphsCmd splits readable text into stored paragraphs.
func NewParagraphsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paragraphs LAND",
		Short: "Split every expression's readable text into paragraphs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, processed, errs, err := svc.ExtractParagraphs(cmd.Context(), args[0])
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	return cmd
}

// NewEmbeddingsCmd embeds pending paragraphs, and exposes a --reset
// mode that clears paragraphs/embeddings/similarities for the land.
func NewEmbeddingsCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "embeddings LAND",
		Short: "Generate embeddings for paragraphs that don't have one yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if reset {
				ok, err := svc.ResetEmbeddings(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "land not found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "embeddings reset")
				return nil
			}

			ok, processed, errs, err := svc.GenerateEmbeddings(cmd.Context(), args[0])
			return reportResult(cmd, ok, processed, errs, err)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear paragraphs, embeddings and similarities instead of generating")
	return cmd
}
