package document

import (
	"fmt"
	"strings"
)

// RequiredFields is the front-matter field set required for registry
// membership, in reporting order.
var RequiredFields = []string{
	"doc_key", "semver", "status",
	"effective_date", "owner", "contract_type",
}

// VersionRequiredFields is the reduced field set required by the lenient
// version extractor (no owner requirement).
var VersionRequiredFields = []string{
	"doc_key", "semver", "status", "effective_date", "contract_type",
}

// fieldValue returns the scalar for a header field, with explicit nulls
// collapsing to the empty string.
func fieldValue(fields map[string]*string, key string) string {
	if v, ok := fields[key]; ok && v != nil {
		return *v
	}
	return ""
}

// MissingFields returns the members of required absent from fields,
// preserving the order of required. A field carrying an explicit null still
// counts as present.
func MissingFields(fields map[string]*string, required []string) []string {
	var missing []string
	for _, f := range required {
		if _, ok := fields[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// ValidateHeader checks a parsed front-matter mapping against the registry's
// required field set and per-field constraints. The returned error carries a
// single diagnostic attributed to path: all missing fields at once, or the
// first malformed value. A nil error means the mapping qualifies as a
// governance record.
func ValidateHeader(fields map[string]*string, path string) error {
	if missing := MissingFields(fields, RequiredFields); len(missing) > 0 {
		return fmt.Errorf("%s: Missing required fields: %s", path, strings.Join(missing, ", "))
	}

	if semver := fieldValue(fields, "semver"); !ValidSemver(semver) {
		return fmt.Errorf("%s: Invalid semver format '%s' (must be MAJOR.MINOR.PATCH)", path, semver)
	}

	if status := Status(fieldValue(fields, "status")); !status.IsValid() {
		return fmt.Errorf("%s: Invalid status '%s' (must be one of: %s)",
			path, status, joinStatuses())
	}

	if ct := ContractType(fieldValue(fields, "contract_type")); !ct.IsValid() {
		return fmt.Errorf("%s: Invalid contract_type '%s' (must be one of: %s)",
			path, ct, joinContractTypes())
	}

	return nil
}

// NewRecord builds a Record from a validated header mapping. The mapping
// must have passed ValidateHeader; path is the repo-relative location.
func NewRecord(fields map[string]*string, path string) Record {
	rec := Record{
		DocKey:        fieldValue(fields, "doc_key"),
		Path:          path,
		Semver:        fieldValue(fields, "semver"),
		Status:        Status(fieldValue(fields, "status")),
		EffectiveDate: fieldValue(fields, "effective_date"),
		Owner:         fieldValue(fields, "owner"),
		ContractType:  ContractType(fieldValue(fields, "contract_type")),
	}
	if v, ok := fields["supersedes_version"]; ok && v != nil {
		s := *v
		rec.SupersedesVersion = &s
	}
	return rec
}

// NewVersion builds a Version from a header mapping that satisfied
// VersionRequiredFields.
func NewVersion(fields map[string]*string, path string) Version {
	return Version{
		DocKey:        fieldValue(fields, "doc_key"),
		Semver:        fieldValue(fields, "semver"),
		Status:        Status(fieldValue(fields, "status")),
		EffectiveDate: fieldValue(fields, "effective_date"),
		ContractType:  ContractType(fieldValue(fields, "contract_type")),
		Path:          path,
	}
}

func joinStatuses() string {
	parts := make([]string, 0, len(Statuses()))
	for _, s := range Statuses() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

func joinContractTypes() string {
	parts := make([]string, 0, len(ContractTypes()))
	for _, t := range ContractTypes() {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}
