// Package history records summaries of past analysis runs. Only derived
// numbers are stored; uploaded file contents never are. The repository is
// optional: without a database the service simply keeps no history.
package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"
)

// Run is a persisted summary of one analysis run.
type Run struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	Shape        string    `json:"shape"`
	Readings     int       `json:"readings"`
	HoursDefined int       `json:"hours_defined"`
	PeakKW       float64   `json:"peak_kw"`
	CapacityKW   float64   `json:"capacity_kw"`
	Strategy     string    `json:"strategy"`
	Overloaded   bool      `json:"overloaded"`
	Warnings     int       `json:"warnings"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewID generates a random run id.
func NewID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "run-" + hex.EncodeToString(buf)
}

// Repository writes run summaries.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a run-history repository. A nil db yields a nil
// repository, which records nothing.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

// Record inserts a run summary row. On a nil repository it is a no-op.
func (r *Repository) Record(ctx context.Context, run Run) error {
	if r == nil || r.db == nil {
		return nil
	}
	if run.ID == "" {
		run.ID = NewID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO analysis_runs (
	id, file_name, shape, readings, hours_defined, peak_kw, capacity_kw,
	strategy, overloaded, warnings, error, created_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)`, run.ID, run.FileName, run.Shape, run.Readings, run.HoursDefined, run.PeakKW, run.CapacityKW,
		run.Strategy, run.Overloaded, run.Warnings, run.Error, run.CreatedAt)
	return err
}

// Recent returns the latest run summaries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Run, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, file_name, shape, readings, hours_defined, peak_kw, capacity_kw,
	strategy, overloaded, warnings, error, created_at
FROM analysis_runs
ORDER BY created_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.FileName, &run.Shape, &run.Readings, &run.HoursDefined,
			&run.PeakKW, &run.CapacityKW, &run.Strategy, &run.Overloaded, &run.Warnings,
			&run.Error, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
