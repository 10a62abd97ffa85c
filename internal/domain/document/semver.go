package document

import "regexp"

// semverPattern accepts exactly MAJOR.MINOR.PATCH with numeric components.
// Pre-release and build metadata suffixes are not versioned-document semver.
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ValidSemver reports whether s is a three-component dotted numeric version.
func ValidSemver(s string) bool {
	return semverPattern.MatchString(s)
}
