package handlers

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mwi/internal/export"
	"mwi/internal/land"
)

// NewExportCmd serializes a land's data into one of export.Format's
// backends.
func NewExportCmd() *cobra.Command {
	var backend string
	var minRelevance, batchSize int

	cmd := &cobra.Command{
		Use:   "export LAND",
		Short: "Export a land's data (pagecsv, fullpagecsv, nodecsv, mediacsv, nodelinkcsv, pagegexf, nodegexf, corpus, pseudolinks, pseudolinkspage, pseudolinksdomain)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, paths, err := svc.Export(cmd.Context(), args[0], land.ExportParams{
				Backend:      export.Format(backend),
				MinRelevance: minRelevance,
				BatchSize:    batchSize,
			}, time.Now().UTC())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "export did not complete")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", string(export.FormatPageCSV), "export backend")
	cmd.Flags().IntVar(&minRelevance, "minrel", 0, "minimum relevance required to be included")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "corpus archive batch size (0 = engine default)")
	return cmd
}
