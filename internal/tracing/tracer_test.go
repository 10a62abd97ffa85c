package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "parchment", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())
	require.NotNil(t, provider.Tracer())

	// No-op tracer still hands out usable spans.
	_, span := provider.Tracer().Start(context.Background(), "noop-span")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Enabled_WithFileExporter(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "file",
		FilePath: tracePath,
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanRegistryBuild)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	info, err := os.Stat(tracePath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0), "span should be flushed on shutdown")
}

func TestNewProvider_Enabled_WithNoExporter(t *testing.T) {
	provider, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "none",
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporter_MissingPath(t *testing.T) {
	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "file",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path required")
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "jaeger",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter type")
}

func TestTraced_RecordsSuccess(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	var sawSpan trace.Span
	err = Traced(context.Background(), provider.Tracer(), SpanVersionScan,
		func(ctx context.Context, span trace.Span) error {
			sawSpan = span
			return nil
		})
	require.NoError(t, err)
	require.NotNil(t, sawSpan)
	require.True(t, sawSpan.SpanContext().IsValid())
}

func TestTraced_PropagatesError(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	wantErr := errors.New("scan failed")
	err = Traced(context.Background(), provider.Tracer(), SpanRegistryBuild,
		func(ctx context.Context, span trace.Span) error {
			return wantErr
		})
	require.ErrorIs(t, err, wantErr)
}
