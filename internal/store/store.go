// Package store persists projection runs: one run per scenario invocation,
// the fitted curve of each material and the assembled demand rows.
package store

import (
	"matdemand/internal/demand"
	"matdemand/internal/material"
)

// DefaultDBPath is the default relative path for the SQLite DB (per-workspace).
// Open() creates the parent dir (e.g. .matdemand).
const DefaultDBPath = ".matdemand/demand.db"

// Run is one projection invocation.
type Run struct {
	ID        int64
	Scenario  string // label as given, e.g. SSP2
	Mode      string
	BaseYear  int
	CreatedAt string
}

// Fit records the curve fitted for one material of a run, together with the
// scenario-adjusted coefficients actually used for projection.
type Fit struct {
	RunID        int64
	Material     material.Material
	Form         string
	Fitted       material.Coefficients
	Adjusted     material.Coefficients
	Iterations   int
	SSR          float64
	RMSE         float64
	RSquared     float64
	Observations int
	FirstYear    int
	LastYear     int
}

// Store is the output sink for projection runs.
// Domain and CLI use only this interface; implementation is SQLite or in-memory.
type Store interface {
	CreateRun(run *Run) (runID int64, err error)
	GetRun(runID int64) (*Run, error)
	ListRuns() ([]*Run, error)
	SaveFit(f *Fit) error
	ListFits(runID int64) ([]*Fit, error)
	// SaveRows appends demand rows to a run. A (material, region, year)
	// already stored for the run is rejected.
	SaveRows(runID int64, rows []demand.Row) error
	// ListRows returns the rows of a run sorted by (material, region, year).
	// An empty material returns every material.
	ListRows(runID int64, m material.Material) ([]demand.Row, error)
}

// SaveResult stores the fit and rows of one material result.
func SaveResult(s Store, runID int64, res *demand.Result) error {
	f := &Fit{
		RunID:    runID,
		Material: res.Material,
		Adjusted: res.Adjusted,
	}
	if res.Fitted != nil {
		f.Form = res.Fitted.Form.String()
		f.Fitted = res.Fitted.Coefficients
		f.Iterations = res.Fitted.Iterations
		f.SSR = res.Fitted.SSR
		f.RMSE = res.Fitted.RMSE
		f.RSquared = res.Fitted.RSquared
		f.Observations = res.Fitted.Observations
		f.FirstYear = res.Fitted.FirstYear
		f.LastYear = res.Fitted.LastYear
	}
	if err := s.SaveFit(f); err != nil {
		return err
	}
	return s.SaveRows(runID, res.Rows)
}
