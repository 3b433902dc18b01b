package dataset

import (
	"math"
	"sort"
)

// Observations derives per-capita consumption and years since referenceYear
// from raw rows. Rows with non-positive or non-finite consumption,
// population or income are dropped; the number dropped is returned. The
// result is sorted by region then year.
func Observations(raw []HistoricalRecord, referenceYear int) ([]Observation, int) {
	out := make([]Observation, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if !positive(r.Consumption) || !positive(r.Population) || !positive(r.IncomePerCapita) {
			dropped++
			continue
		}
		out = append(out, Observation{
			Region:               r.Region,
			Year:                 r.Year,
			IncomePerCapita:      r.IncomePerCapita,
			ConsumptionPerCapita: r.Consumption / r.Population,
			YearsSinceReference:  float64(r.Year - referenceYear),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Year < out[j].Year
	})
	return out, dropped
}

// YearWindow returns the first and last observed year.
func YearWindow(obs []Observation) (first, last int) {
	for i, o := range obs {
		if i == 0 || o.Year < first {
			first = o.Year
		}
		if i == 0 || o.Year > last {
			last = o.Year
		}
	}
	return first, last
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
