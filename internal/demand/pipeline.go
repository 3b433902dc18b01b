package demand

import (
	"context"
	"fmt"

	"matdemand/internal/dataset"
	"matdemand/internal/fit"
	"matdemand/internal/logging"
	"matdemand/internal/material"
	"matdemand/internal/scenario"
)

// Inputs are the tables of one material run.
type Inputs struct {
	Historical            []dataset.HistoricalRecord
	Drivers               []dataset.Driver
	BaseYearActuals       []dataset.RegionValue
	InfrastructureOffsets []dataset.RegionValue
}

// Config is the static configuration shared by every material run.
type Config struct {
	Catalog  *material.Catalog
	Modes    *scenario.ModeTable
	Mode     scenario.Mode
	BaseYear int
	Fit      fit.Settings
}

// Result is the complete output of one material run.
type Result struct {
	Material material.Material
	Mode     scenario.Mode
	Fitted   *fit.Result
	Adjusted material.Coefficients
	Gaps     []Gap
	Rows     []Row
	Dropped  int // historical rows removed by cleaning
}

// Run executes the full pipeline for one material: clean observations,
// check the data contract, fit, adjust for the scenario mode, project,
// blend and assemble. Any error aborts the run; there is no partial result.
func Run(ctx context.Context, cfg Config, m material.Material, in Inputs) (*Result, error) {
	logger := logging.ForMaterial("pipeline", m.String())
	baseYear := cfg.BaseYear
	if baseYear == 0 {
		baseYear = DefaultBaseYear
	}
	if cfg.Catalog == nil || cfg.Modes == nil {
		return nil, &material.ConfigError{Subject: "pipeline", Value: m.String(), Reason: "catalog and mode table are required"}
	}

	spec, err := cfg.Catalog.Spec(m)
	if err != nil {
		return nil, err
	}
	if _, err := cfg.Modes.Multipliers(cfg.Mode, m); err != nil {
		return nil, err
	}

	obs, dropped := dataset.Observations(in.Historical, spec.ReferenceYear)
	if dropped > 0 {
		logger.Warn("dropped historical rows", "count", dropped)
	}
	if err := Validate(m, baseYear, obs, in.Drivers, in.BaseYearActuals); err != nil {
		return nil, err
	}
	baseTotals, err := BaseTotals(m, in.BaseYearActuals, in.InfrastructureOffsets)
	if err != nil {
		return nil, err
	}

	fitted, err := fit.Fit(ctx, spec, obs, cfg.Fit)
	if err != nil {
		return nil, err
	}
	logger.Info("curve fitted", "iterations", fitted.Iterations, "r2", fitted.RSquared, "observations", fitted.Observations)

	adjusted, err := scenario.Adjust(cfg.Modes, cfg.Mode, spec, fitted.Coefficients)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", m, err)
	}

	traj := Project(spec, adjusted, in.Drivers)
	actual, err := PerCapitaActuals(m, baseYear, baseTotals, traj)
	if err != nil {
		return nil, err
	}
	blended, gaps, err := Blend(spec, baseYear, traj, actual)
	if err != nil {
		return nil, err
	}
	rows, err := Assemble(m, baseYear, blended, baseTotals)
	if err != nil {
		return nil, err
	}
	logger.Info("demand assembled", "mode", string(cfg.Mode), "rows", len(rows), "regions", len(gaps))

	return &Result{
		Material: m,
		Mode:     cfg.Mode,
		Fitted:   fitted,
		Adjusted: adjusted,
		Gaps:     gaps,
		Rows:     rows,
		Dropped:  dropped,
	}, nil
}
