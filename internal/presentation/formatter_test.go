package presentation

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/parchment/internal/testutil"
	"github.com/zjrosen/parchment/internal/versions"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "json", input: "json", want: FormatJSON},
		{name: "simple", input: "simple", want: FormatSimple},
		{name: "ledger", input: "ledger", want: FormatLedger},
		{name: "case insensitive", input: "JSON", want: FormatJSON},
		{name: "surrounding whitespace", input: " simple ", want: FormatSimple},
		{name: "unknown", input: "yaml", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func scannedExtractor(t *testing.T) *versions.Extractor {
	t.Helper()
	tree := testutil.NewDocTree(t)
	tree.WriteDoc("docs/a.md", testutil.GoverningDoc("policy.a"))
	e := versions.NewExtractor(tree.Root())
	e.Scan()
	return e
}

func TestFormatter_SimpleProjection(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatVersions(scannedExtractor(t), FormatSimple))

	var out map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, map[string]string{"policy.a": "1.0.0"}, out)
}

func TestFormatter_DetailProjection(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatVersions(scannedExtractor(t), FormatJSON))

	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Contains(t, out, "policy.a")
	assert.Equal(t, "1.0.0", out["policy.a"]["semver"])
	assert.Equal(t, "active", out["policy.a"]["status"])
}

func TestFormatter_LedgerEnvelope(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatVersions(scannedExtractor(t), FormatLedger))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "policy_snapshot", out["event"])
	assert.Equal(t, float64(1), out["count"])
	assert.NotEmpty(t, out["timestamp"])
}

func TestFormatter_OutputEndsWithNewline(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)
	require.NoError(t, f.FormatVersions(scannedExtractor(t), FormatSimple))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}
