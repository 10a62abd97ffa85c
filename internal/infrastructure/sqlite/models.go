package sqlite

import (
	"github.com/zjrosen/parchment/internal/run"
)

// RunModel represents the database row for the runs table.
// Fields map directly to SQL columns. Times are stored as RFC 3339
// strings, matching the run metadata files.
type RunModel struct {
	ID          int64
	RunID       string
	StartTime   string
	EndTime     *string // nullable
	Success     *bool   // nullable
	PolicyCount int
}

// toRunModel converts a run record to a database RunModel.
func toRunModel(rec *run.Record) *RunModel {
	m := &RunModel{
		ID:          rec.ID,
		RunID:       rec.RunID,
		StartTime:   rec.StartTime,
		PolicyCount: rec.PolicyCount,
	}
	if rec.EndTime != nil {
		endTime := *rec.EndTime
		m.EndTime = &endTime
	}
	if rec.Success != nil {
		success := *rec.Success
		m.Success = &success
	}
	return m
}

// toRecord converts a database RunModel to a run record.
func (m *RunModel) toRecord() *run.Record {
	rec := &run.Record{
		ID:          m.ID,
		RunID:       m.RunID,
		StartTime:   m.StartTime,
		PolicyCount: m.PolicyCount,
	}
	if m.EndTime != nil {
		endTime := *m.EndTime
		rec.EndTime = &endTime
	}
	if m.Success != nil {
		success := *m.Success
		rec.Success = &success
	}
	return rec
}
