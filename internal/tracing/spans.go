package tracing

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names for top-level operations.
const (
	SpanRegistryBuild = "registry.build"
	SpanVersionScan   = "versions.scan"
	SpanRunInitialize = "run.initialize"
	SpanRunFinalize   = "run.finalize"
)

// Attribute keys shared across spans.
const (
	AttrRepoRoot    = "docs.repo_root"
	AttrFileCount   = "docs.files_scanned"
	AttrDocCount    = "docs.documents"
	AttrErrorCount  = "docs.validation_errors"
	AttrDupCount    = "docs.duplicates"
	AttrRunID       = "run.id"
	AttrPolicyCount = "run.policy_count"
	AttrRunSuccess  = "run.success"
)

// Traced runs fn inside a span named name, recording the error status.
func Traced(ctx context.Context, tracer trace.Tracer, name string, fn func(ctx context.Context, span trace.Span) error) error {
	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
