package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/parchment/internal/domain/document"
	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/presentation"
	"github.com/zjrosen/parchment/internal/tracing"
	"github.com/zjrosen/parchment/internal/versions"
)

var (
	versionsFormat   string
	versionsStatus   string
	versionsOutput   string
	versionsRepoRoot string
)

var versionsCmd = &cobra.Command{
	Use:   "versions:list",
	Short: "List document versions from a lenient scan",
	Long: `Scan the configured document roots leniently and print the collected
versions. Documents with incomplete headers are skipped without diagnostics,
and when a doc_key appears more than once the last scanned document wins.

Examples:
  # Full detail for every versioned document
  parchment versions:list

  # doc_key to semver mapping
  parchment versions:list --format simple

  # Timestamped ledger event for active policies
  parchment versions:list --format ledger --status active

  # Write to a file instead of stdout
  parchment versions:list -o versions.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := presentation.ParseFormat(versionsFormat)
		if err != nil {
			return err
		}

		opts := []versions.Option{
			versions.WithRoots(cfg.DocRoots...),
			versions.WithExtension(cfg.DocExtension),
		}
		if versionsStatus != "" {
			status := document.Status(versionsStatus)
			if !status.IsValid() {
				return fmt.Errorf("unknown status %q (must be one of: active, deprecated, frozen)", versionsStatus)
			}
			opts = append(opts, versions.WithStatusFilter(status))
		}

		root := cfg.RepoRoot
		if versionsRepoRoot != "" {
			root = versionsRepoRoot
		}

		provider, flush := startTracing()
		defer flush()

		e := versions.NewExtractor(root, opts...)
		err = tracing.Traced(cmd.Context(), provider.Tracer(), tracing.SpanVersionScan,
			func(ctx context.Context, span trace.Span) error {
				matched := e.Scan()
				span.SetAttributes(
					attribute.String(tracing.AttrRepoRoot, root),
					attribute.Int(tracing.AttrFileCount, matched),
					attribute.Int(tracing.AttrDocCount, len(e.Detail())),
				)
				log.Info(log.CatVersions, "scan complete",
					"matched", matched, "documents", len(e.Detail()))
				return nil
			})
		if err != nil {
			return err
		}

		out, closeOut, err := outputWriter(versionsOutput)
		if err != nil {
			return err
		}
		defer closeOut()

		return presentation.NewFormatter(out).FormatVersions(e, format)
	},
}

func init() {
	versionsCmd.Flags().StringVarP(&versionsFormat, "format", "f", "json",
		"output format: json, simple, or ledger")
	versionsCmd.Flags().StringVarP(&versionsStatus, "status", "s", "",
		"only include documents with this exact status")
	versionsCmd.Flags().StringVarP(&versionsOutput, "output", "o", "",
		"write output to a file instead of stdout")
	versionsCmd.Flags().StringVar(&versionsRepoRoot, "repo-root", "",
		"repository root to scan (default from config)")
	rootCmd.AddCommand(versionsCmd)
}

// outputWriter resolves the output destination. An empty path means stdout.
func outputWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
