package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/parchment/internal/run"
)

// runColumns is the list of columns to select for run queries.
const runColumns = `id, run_id, start_time, end_time, success, policy_count`

// runRepository implements run.Repository using SQLite.
type runRepository struct {
	db *sql.DB
}

func newRunRepository(db *sql.DB) *runRepository {
	return &runRepository{db: db}
}

// Ensure runRepository implements run.Repository.
var _ run.Repository = (*runRepository)(nil)

// scanRun scans a row into a RunModel.
func scanRun(scanner interface{ Scan(...any) error }) (*RunModel, error) {
	var model RunModel
	err := scanner.Scan(
		&model.ID, &model.RunID, &model.StartTime,
		&model.EndTime, &model.Success, &model.PolicyCount,
	)
	return &model, err
}

// Save persists a run record.
// For new records (ID == 0), inserts a new row and sets the record ID.
// For existing records (ID > 0), updates the existing row.
func (r *runRepository) Save(rec *run.Record) error {
	model := toRunModel(rec)

	if rec.ID == 0 {
		result, err := r.db.Exec(
			`INSERT INTO runs (run_id, start_time, end_time, success, policy_count)
			VALUES (?, ?, ?, ?, ?)`,
			model.RunID, model.StartTime, model.EndTime, model.Success, model.PolicyCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		rec.ID = id
		return nil
	}

	_, err := r.db.Exec(
		`UPDATE runs SET start_time = ?, end_time = ?, success = ?, policy_count = ?
		WHERE id = ?`,
		model.StartTime, model.EndTime, model.Success, model.PolicyCount, model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// FindByRunID retrieves a record by its run identifier.
// Returns run.NotFoundError if no matching record exists.
func (r *runRepository) FindByRunID(runID string) (*run.Record, error) {
	row := r.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`,
		runID,
	)
	model, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &run.NotFoundError{RunID: runID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	return model.toRecord(), nil
}

// List returns all records ordered by start time, newest first.
func (r *runRepository) List() ([]*run.Record, error) {
	rows, err := r.db.Query(
		`SELECT ` + runColumns + ` FROM runs ORDER BY start_time DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*run.Record
	for rows.Next() {
		model, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, model.toRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}
