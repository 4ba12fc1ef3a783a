package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mwi/internal/config"
	"mwi/internal/embedding"
	"mwi/internal/land"
	"mwi/internal/llmrelevance"
	"mwi/internal/logger"
	"mwi/internal/readable"
	"mwi/internal/seorank"
	"mwi/internal/store"
)

var cfgFile string

// NewRootCmd builds the root command and attaches every land
// subcommand. Each subcommand opens its own store/service from the
// resolved configuration rather than sharing process-wide state, the
// same way the teacher's handlers package built a fresh client per
// invocation instead of threading a global through cobra.Command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mwi",
		Short: "Web corpus land-mining engine",
		Long: `mwi builds and mines a corpus of web pages relevant to a topic.

A "land" is one topic's corpus: a dictionary of terms, a set of seed
URLs, and everything discovered by crawling outward from them. Each
subcommand drives one stage of the pipeline: seeding, crawling,
extracting readable text, scoring relevance, embedding paragraphs,
computing similarity, and exporting the result.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: env + built-in defaults)")

	rootCmd.AddCommand(NewLandCmd())
	rootCmd.AddCommand(NewTermCmd())
	rootCmd.AddCommand(NewURLCmd())
	rootCmd.AddCommand(NewCrawlCmd())
	rootCmd.AddCommand(NewReadableCmd())
	rootCmd.AddCommand(NewConsolidateCmd())
	rootCmd.AddCommand(NewSEORankCmd())
	rootCmd.AddCommand(NewParagraphsCmd())
	rootCmd.AddCommand(NewEmbeddingsCmd())
	rootCmd.AddCommand(NewSimilarityCmd())
	rootCmd.AddCommand(NewExportCmd())

	return rootCmd
}

// Execute runs the root command, exiting the process with 1 when a
// subcommand returns a non-nil error. Together with reportResult
// (which exits with 1 on ok=false) it is the only place in this engine
// that calls os.Exit.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildService loads configuration, opens the store, and wires every
// pluggable provider the resolved config selects — the CLI's one
// assembly point for a land.Service.
func buildService(ctx context.Context) (*land.Service, func() error, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Options{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	st, err := store.Open(ctx, cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	readableExtractor := readable.NewExtractorFactory().Create("")
	llmProvider := llmrelevance.NewFactory(cfg.Providers.OpenRouterKey).Create("")
	seoProvider := seorank.NewFactory(cfg.Providers.SEORankAPIKey).Create()

	embedProvider, err := buildEmbeddingProvider(ctx, cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	svc := land.NewService(st, cfg, readableExtractor, llmProvider, embedProvider, seoProvider)
	return svc, st.Close, nil
}

func buildEmbeddingProvider(ctx context.Context, cfg config.Config) (embedding.Provider, error) {
	switch cfg.Providers.EmbedProvider {
	case "genai":
		return embedding.NewGenAIProvider(ctx, cfg.Providers.GenAIAPIKey, "", 0)
	default:
		return embedding.NewFakeProvider(0), nil
	}
}

// reportResult prints the operation's outcome and exits the process
// with status 1 on ok=false; on ok=true it returns nil and the process
// exits with status 0.
func reportResult(cmd *cobra.Command, ok bool, processed, errs int, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "operation did not complete")
		os.Exit(1)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "processed=%d errors=%d\n", processed, errs)
	return nil
}
