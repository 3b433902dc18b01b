package demand

import (
	"fmt"
	"math"

	"matdemand/internal/dataset"
	"matdemand/internal/material"
)

// Fixed output labels of the exogenous demand parameter.
const (
	UnitMt      = "Mt"
	TimeAnnual  = "year"
	LevelDemand = "demand"
)

// Row is one (material, region, year) demand value ready for ingestion by
// the host optimization model.
type Row struct {
	Material  material.Material
	Region    string
	Year      int
	PerCapita float64
	Total     float64
	Unit      string
	Time      string
	Commodity string
	Level     string
}

// BaseTotals deducts the infrastructure offsets from the reported base-year
// totals. Offsets may only name regions with a reported total, at most once
// each, must be finite and non-negative, and must not exceed the total.
func BaseTotals(m material.Material, reported, offsets []dataset.RegionValue) (map[string]float64, error) {
	out := make(map[string]float64, len(reported))
	for _, r := range reported {
		if _, dup := out[r.Region]; dup {
			return nil, &dataset.DataContractError{Material: m.String(), Region: r.Region, Reason: "duplicate base-year demand"}
		}
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
			return nil, &dataset.DataContractError{Material: m.String(), Region: r.Region, Reason: fmt.Sprintf("invalid base-year demand %g", r.Value)}
		}
		out[r.Region] = r.Value
	}
	deducted := make(map[string]bool, len(offsets))
	for _, o := range offsets {
		if deducted[o.Region] {
			return nil, &dataset.DataContractError{Material: m.String(), Region: o.Region, Reason: "duplicate infrastructure offset"}
		}
		deducted[o.Region] = true
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) || o.Value < 0 {
			return nil, &dataset.DataContractError{Material: m.String(), Region: o.Region, Reason: fmt.Sprintf("invalid infrastructure offset %g", o.Value)}
		}
		total, ok := out[o.Region]
		if !ok {
			return nil, &dataset.DataContractError{Material: m.String(), Region: o.Region, Reason: "infrastructure offset for a region without base-year demand"}
		}
		total -= o.Value
		if math.IsNaN(total) || total < 0 {
			return nil, &dataset.DataContractError{Material: m.String(), Region: o.Region,
				Reason: fmt.Sprintf("infrastructure offset %g exceeds base-year demand %g", o.Value, out[o.Region])}
		}
		out[o.Region] = total
	}
	return out, nil
}

// PerCapitaActuals divides base-year totals by base-year population.
func PerCapitaActuals(m material.Material, baseYear int, totals map[string]float64, traj []Trajectory) (map[string]float64, error) {
	out := make(map[string]float64, len(totals))
	for _, t := range traj {
		if t.Year != baseYear {
			continue
		}
		total, ok := totals[t.Region]
		if !ok {
			continue
		}
		if !(t.Population > 0) {
			return nil, &dataset.DataContractError{Material: m.String(), Region: t.Region, Year: baseYear, Reason: "base-year population is not positive"}
		}
		out[t.Region] = total / t.Population
	}
	for region := range totals {
		if _, ok := out[region]; !ok {
			return nil, &dataset.DataContractError{Material: m.String(), Region: region, Year: baseYear, Reason: "missing base-year population"}
		}
	}
	return out, nil
}

// Assemble converts blended per-capita trajectories to total demand, then
// overrides the base-year total of each region with baseTotals. Any
// non-finite or negative value is rejected, not clipped.
func Assemble(m material.Material, baseYear int, traj []Trajectory, baseTotals map[string]float64) ([]Row, error) {
	rows := make([]Row, 0, len(traj))
	for _, t := range traj {
		perCapita := t.PerCapita
		total := perCapita * t.Population
		if t.Year == baseYear {
			reported, ok := baseTotals[t.Region]
			if !ok {
				return nil, &dataset.DataContractError{Material: m.String(), Region: t.Region, Year: t.Year, Reason: "no base-year total to override with"}
			}
			total = reported
			perCapita = reported / t.Population
		}
		if bad(perCapita) || bad(total) {
			return nil, &dataset.DataContractError{Material: m.String(), Region: t.Region, Year: t.Year,
				Reason: fmt.Sprintf("projected demand is not a finite non-negative value (per capita %g, total %g)", perCapita, total)}
		}
		rows = append(rows, Row{
			Material:  m,
			Region:    t.Region,
			Year:      t.Year,
			PerCapita: perCapita,
			Total:     total,
			Unit:      UnitMt,
			Time:      TimeAnnual,
			Commodity: m.String(),
			Level:     LevelDemand,
		})
	}
	return rows, nil
}

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}
