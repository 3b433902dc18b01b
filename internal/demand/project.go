// Package demand turns fitted consumption curves into exogenous demand
// trajectories: it projects the curve over the scenario drivers, blends the
// reported base-year value into the trend and assembles total demand rows.
//
// Every stage is a pure function over its inputs. Units follow package
// dataset: totals in Mt, population in million persons, per-capita values in
// t/person.
package demand

import (
	"sort"

	"matdemand/internal/dataset"
	"matdemand/internal/material"
)

// DefaultBaseYear is the calibration year whose reported demand is ground truth.
const DefaultBaseYear = 2020

// Trajectory is one region-year of a projection. Trend is the curve value;
// PerCapita is set by Blend.
type Trajectory struct {
	Region          string
	Year            int
	Population      float64
	IncomePerCapita float64
	Trend           float64
	PerCapita       float64
}

// Project evaluates the curve of spec with coefficients c at every driver
// row, base year included. The result is sorted by region then year.
func Project(spec material.Spec, c material.Coefficients, drivers []dataset.Driver) []Trajectory {
	out := make([]Trajectory, len(drivers))
	for i, d := range drivers {
		in := material.Input{
			IncomePerCapita:     d.IncomePerCapita,
			YearsSinceReference: float64(d.Year - spec.ReferenceYear),
		}
		v := spec.Form.Eval(c, in)
		out[i] = Trajectory{
			Region:          d.Region,
			Year:            d.Year,
			Population:      d.Population,
			IncomePerCapita: d.IncomePerCapita,
			Trend:           v,
			PerCapita:       v,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Year < out[j].Year
	})
	return out
}
