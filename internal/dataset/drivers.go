package dataset

import (
	"fmt"
	"sort"
)

type regionYear struct {
	region string
	year   int
}

// ResolveDrivers merges PPP drivers with MER drivers converted through
// region-year MER→PPP factors. A region-year present in the PPP series wins
// over its MER counterpart. A MER row without a conversion factor violates
// the data contract. The result is sorted by region then year.
func ResolveDrivers(ppp []Driver, mer []MERDriver, factors []ConversionFactor) ([]Driver, error) {
	out := make([]Driver, 0, len(ppp)+len(mer))
	seen := make(map[regionYear]bool, len(ppp))
	for _, d := range ppp {
		seen[regionYear{d.Region, d.Year}] = true
		out = append(out, d)
	}

	if len(mer) > 0 {
		factor := make(map[regionYear]float64, len(factors))
		for _, f := range factors {
			factor[regionYear{f.Region, f.Year}] = f.Factor
		}
		for _, d := range mer {
			key := regionYear{d.Region, d.Year}
			if seen[key] {
				continue
			}
			f, ok := factor[key]
			if !ok {
				return nil, &DataContractError{Region: d.Region, Year: d.Year, Reason: "MER income without MER→PPP conversion factor"}
			}
			if !positive(f) {
				return nil, &DataContractError{Region: d.Region, Year: d.Year, Reason: fmt.Sprintf("non-positive MER→PPP factor %g", f)}
			}
			seen[key] = true
			out = append(out, Driver{
				Region:          d.Region,
				Year:            d.Year,
				Population:      d.Population,
				IncomePerCapita: d.IncomeMER * f,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// ResolvedDrivers resolves the bundle's scenario drivers.
func (b *Bundle) ResolvedDrivers() ([]Driver, error) {
	return ResolveDrivers(b.Drivers, b.DriversMER, b.MERToPPP)
}

// Regions returns the sorted distinct regions of a set of region keys.
func Regions[T any](rows []T, region func(T) string) []string {
	set := make(map[string]bool)
	for _, r := range rows {
		set[region(r)] = true
	}
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
