package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestValidSemver(t *testing.T) {
	tests := []struct {
		name     string
		semver   string
		expected bool
	}{
		{"basic version", "1.0.0", true},
		{"multi digit components", "12.345.6789", true},
		{"zeros", "0.0.0", true},
		{"missing patch", "1.0", false},
		{"missing minor and patch", "1", false},
		{"four components", "1.0.0.0", false},
		{"v prefix", "v1.0.0", false},
		{"prerelease suffix", "1.0.0-rc1", false},
		{"build metadata", "1.0.0+build5", false},
		{"empty", "", false},
		{"letters", "a.b.c", false},
		{"trailing dot", "1.0.", false},
		{"leading dot", ".1.0", false},
		{"internal whitespace", "1. 0.0", false},
		{"surrounding whitespace", " 1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidSemver(tt.semver))
		})
	}
}

func TestValidSemver_AcceptsAllNumericTriples(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		major := rapid.Uint64().Draw(t, "major")
		minor := rapid.Uint64().Draw(t, "minor")
		patch := rapid.Uint64().Draw(t, "patch")

		s := fmt.Sprintf("%d.%d.%d", major, minor, patch)
		if !ValidSemver(s) {
			t.Fatalf("expected %q to be accepted", s)
		}
	})
}

func TestValidSemver_RejectsDecoratedTriples(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := fmt.Sprintf("%d.%d.%d",
			rapid.Uint64().Draw(t, "major"),
			rapid.Uint64().Draw(t, "minor"),
			rapid.Uint64().Draw(t, "patch"))

		decorated := rapid.SampledFrom([]string{
			"v" + base,
			base + "-rc1",
			base + "+meta",
			" " + base,
			base + " ",
			base + ".0",
		}).Draw(t, "decorated")

		if ValidSemver(decorated) {
			t.Fatalf("expected %q to be rejected", decorated)
		}
	})
}
