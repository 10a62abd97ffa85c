// Package document implements the domain layer for governed documents.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines entity types (Record, Version) and value objects (Status, ContractType)
//   - Implements domain logic (semver format checks, header validation)
//   - Has no knowledge of infrastructure concerns (file I/O, front-matter parsing, databases)
//
// # Core Types
//
// Record is the strict registry entry: one per unique doc_key, carrying the
// full required field set including owner. Version is the lighter-weight
// runtime view produced by the lenient extractor, without owner.
//
// Status and ContractType are closed enumerations with IsValid methods;
// validation is case-sensitive exact match.
//
// # Validation
//
// ValidateHeader checks a parsed front-matter mapping against the registry's
// required field set and per-field constraints. It reports a single
// diagnostic error naming every missing field, or the first malformed value,
// attributed to the document's path. Callers accumulate these diagnostics;
// validation never panics and never aborts a scan.
package document
