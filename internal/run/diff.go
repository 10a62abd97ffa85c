package run

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffActivePolicies returns a line-oriented diff between two snapshots'
// active policy sets: unchanged lines prefixed with two spaces, removals
// with "- ", additions with "+ ". An empty string means the sets match.
func DiffActivePolicies(a, b *Snapshot) string {
	oldText := renderPolicies(a.ActivePolicies)
	newText := renderPolicies(b.ActivePolicies)
	if oldText == newText {
		return ""
	}

	// Line-mode diff: collapse lines to runes, diff, expand back.
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffEqual:
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line + "\n")
		}
	}
	return out.String()
}

// renderPolicies renders an active-policy mapping as sorted key: semver
// lines for stable diffing.
func renderPolicies(policies map[string]string) string {
	keys := make([]string, 0, len(policies))
	for k := range policies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, policies[k])
	}
	return b.String()
}
