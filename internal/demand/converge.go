package demand

import (
	"math"
	"sort"

	"matdemand/internal/dataset"
	"matdemand/internal/material"
)

// Gompertz is the convergence weight 1 − exp(−phi·exp(−mu·(year − baseYear))).
// It is 1 − exp(−phi) at the base year and decays to 0 as the horizon grows.
func Gompertz(phi, mu float64, year, baseYear int) float64 {
	return 1 - math.Exp(-phi*math.Exp(-mu*float64(year-baseYear)))
}

// Gap is the base-year residual of one region between the reported
// per-capita demand and the curve.
type Gap struct {
	Region      string
	Actual      float64
	TrendAtBase float64
	Gap         float64
}

// Blend fades each region's base-year gap into its trend:
// PerCapita(y) = Trend(y) + gap·Gompertz(phi, mu, y, baseYear).
// actual holds the reported base-year per-capita demand per region. The
// base-year trend is located by year, never by position.
func Blend(spec material.Spec, baseYear int, traj []Trajectory, actual map[string]float64) ([]Trajectory, []Gap, error) {
	trendAtBase := make(map[string]float64, len(actual))
	for _, t := range traj {
		if t.Year == baseYear {
			trendAtBase[t.Region] = t.Trend
		}
	}

	gaps := make(map[string]Gap, len(actual))
	for _, t := range traj {
		if _, done := gaps[t.Region]; done {
			continue
		}
		base, ok := trendAtBase[t.Region]
		if !ok {
			return nil, nil, &dataset.DataContractError{Material: spec.Material.String(), Region: t.Region, Year: baseYear, Reason: "no projection at base year"}
		}
		a, ok := actual[t.Region]
		if !ok {
			return nil, nil, &dataset.DataContractError{Material: spec.Material.String(), Region: t.Region, Reason: "no reported base-year demand"}
		}
		gaps[t.Region] = Gap{Region: t.Region, Actual: a, TrendAtBase: base, Gap: a - base}
	}

	out := make([]Trajectory, len(traj))
	for i, t := range traj {
		t.PerCapita = t.Trend + gaps[t.Region].Gap*Gompertz(spec.Phi, spec.Mu, t.Year, baseYear)
		out[i] = t
	}

	ordered := make([]Gap, 0, len(gaps))
	for _, g := range gaps {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Region < ordered[j].Region })
	return out, ordered, nil
}
