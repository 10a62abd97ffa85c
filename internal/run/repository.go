package run

import "fmt"

// Record is the indexed summary of a run, persisted for listing and
// lookup without re-reading per-run metadata files.
type Record struct {
	ID          int64
	RunID       string
	StartTime   string
	EndTime     *string
	Success     *bool
	PolicyCount int
}

// Repository persists run records.
type Repository interface {
	// Save persists a record. For new records (ID == 0) it inserts a row
	// and sets the ID. For existing records it updates the row.
	Save(rec *Record) error

	// FindByRunID retrieves a record by its run identifier.
	// Returns NotFoundError if no matching record exists.
	FindByRunID(runID string) (*Record, error)

	// List returns all records ordered by start time, newest first.
	List() ([]*Record, error)
}

// NotFoundError indicates that no record exists for a run identifier.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// RecordFromMetadata builds an index record from run metadata.
func RecordFromMetadata(meta *Metadata) *Record {
	rec := &Record{
		RunID:       meta.RunID,
		StartTime:   meta.StartTime,
		PolicyCount: meta.PolicyCount,
	}
	if meta.EndTime != "" {
		endTime := meta.EndTime
		rec.EndTime = &endTime
	}
	if meta.Success != nil {
		success := *meta.Success
		rec.Success = &success
	}
	return rec
}
