package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/parchment/internal/cachemanager"
	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/registry"
	"github.com/zjrosen/parchment/internal/tracing"
	"github.com/zjrosen/parchment/internal/watcher"
)

var errBuildFailed = errors.New("registry build failed")

var (
	buildCheckOnly bool
	buildOutput    string
	buildRepoRoot  string
	buildWatch     bool
)

var buildCmd = &cobra.Command{
	Use:   "registry:build",
	Short: "Scan document roots and build the registry artifact",
	Long: `Scan the configured document roots for front-matter versioned
documents, validate every header, and write the registry artifact.

The build fails (exit code 1) when any document has an invalid header or
when two documents claim the same doc_key. Nothing is written on failure.

Examples:
  # Build the registry into doc-registry.json
  parchment registry:build

  # Validate without writing
  parchment registry:build --check-only

  # Rebuild on every document change
  parchment registry:build --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, flush := startTracing()
		defer flush()

		headers := cachemanager.NewCachedHeaderSource(registry.FileHeaderSource{})

		if !buildWatch {
			return runBuild(cmd.Context(), provider.Tracer(), headers)
		}

		// First pass builds immediately; later passes ride the watcher.
		if err := runBuild(cmd.Context(), provider.Tracer(), headers); err != nil && !errors.Is(err, errBuildFailed) {
			return err
		}
		return watchLoop(cmd.Context(), provider.Tracer(), headers)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildCheckOnly, "check-only", false,
		"validate documents without writing the registry artifact")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "",
		"registry output path (default from config: doc-registry.json)")
	buildCmd.Flags().StringVar(&buildRepoRoot, "repo-root", "",
		"repository root to scan (default from config)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false,
		"keep running and rebuild when documents change")
	rootCmd.AddCommand(buildCmd)
}

func buildRoot() string {
	if buildRepoRoot != "" {
		return buildRepoRoot
	}
	return cfg.RepoRoot
}

func buildOutputPath() string {
	if buildOutput != "" {
		return buildOutput
	}
	return cfg.RegistryOutput
}

// runBuild performs one scan-validate-save pass.
// Returns errBuildFailed when validation problems block the save.
func runBuild(ctx context.Context, tracer trace.Tracer, headers registry.HeaderSource) error {
	return tracing.Traced(ctx, tracer, tracing.SpanRegistryBuild,
		func(ctx context.Context, span trace.Span) error {
			b := registry.NewBuilder(buildRoot(),
				registry.WithRoots(cfg.DocRoots...),
				registry.WithExtension(cfg.DocExtension),
				registry.WithHeaderSource(headers),
			)

			files := b.Scan()
			span.SetAttributes(
				attribute.String(tracing.AttrRepoRoot, buildRoot()),
				attribute.Int(tracing.AttrFileCount, files),
				attribute.Int(tracing.AttrDocCount, len(b.Registry())),
				attribute.Int(tracing.AttrErrorCount, len(b.Errors())),
				attribute.Int(tracing.AttrDupCount, len(b.Duplicates())),
			)
			log.Info(log.CatRegistry, "scan complete",
				"files", files,
				"documents", len(b.Registry()),
				"errors", len(b.Errors()),
				"duplicates", len(b.Duplicates()))

			if ok := b.Report(os.Stdout); !ok {
				return errBuildFailed
			}
			if buildCheckOnly {
				return nil
			}
			if err := b.Save(buildOutputPath()); err != nil {
				return err
			}
			log.Info(log.CatRegistry, "registry written", "path", buildOutputPath())
			return nil
		})
}

// watchLoop rebuilds on every debounced document change until interrupted.
func watchLoop(ctx context.Context, tracer trace.Tracer, headers registry.HeaderSource) error {
	wcfg := watcher.Config{
		RepoRoot:    buildRoot(),
		Roots:       cfg.DocRoots,
		Extension:   cfg.DocExtension,
		DebounceDur: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	defer w.Stop()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(log.CatWatch, "watching for document changes", "roots", cfg.DocRoots)
	for {
		select {
		case <-changes:
			if err := runBuild(ctx, tracer, headers); err != nil && !errors.Is(err, errBuildFailed) {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}
