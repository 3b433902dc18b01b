package demand

import (
	"fmt"
	"math"
	"strings"

	"matdemand/internal/dataset"
	"matdemand/internal/material"
)

// Validate checks the data contract of one material run before anything is
// fitted or blended: observations, drivers and base-year actuals cover the
// same regions, every driver row has a positive population and income, each
// region has a base-year driver, and no region-year is duplicated.
func Validate(m material.Material, baseYear int, obs []dataset.Observation, drivers []dataset.Driver, actuals []dataset.RegionValue) error {
	name := m.String()

	seen := make(map[string]map[int]bool)
	for _, d := range drivers {
		years, ok := seen[d.Region]
		if !ok {
			years = make(map[int]bool)
			seen[d.Region] = years
		}
		if years[d.Year] {
			return &dataset.DataContractError{Material: name, Region: d.Region, Year: d.Year, Reason: "duplicate driver row"}
		}
		years[d.Year] = true
		if !(d.Population > 0) || math.IsInf(d.Population, 0) {
			return &dataset.DataContractError{Material: name, Region: d.Region, Year: d.Year, Reason: fmt.Sprintf("population %g is not positive", d.Population)}
		}
		if !(d.IncomePerCapita > 0) || math.IsInf(d.IncomePerCapita, 0) {
			return &dataset.DataContractError{Material: name, Region: d.Region, Year: d.Year, Reason: fmt.Sprintf("income per capita %g is not positive", d.IncomePerCapita)}
		}
	}
	driverRegions := dataset.Regions(drivers, func(d dataset.Driver) string { return d.Region })
	for _, region := range driverRegions {
		if !seen[region][baseYear] {
			return &dataset.DataContractError{Material: name, Region: region, Year: baseYear, Reason: "missing base-year population"}
		}
	}

	obsRegions := dataset.Regions(obs, func(o dataset.Observation) string { return o.Region })
	actualRegions := dataset.Regions(actuals, func(r dataset.RegionValue) string { return r.Region })

	if len(driverRegions) == 0 {
		return &dataset.DataContractError{Material: name, Reason: "no scenario drivers"}
	}
	if err := sameRegions(name, "scenario drivers", driverRegions, "historical observations", obsRegions); err != nil {
		return err
	}
	return sameRegions(name, "scenario drivers", driverRegions, "base-year actuals", actualRegions)
}

func sameRegions(materialName, leftName string, left []string, rightName string, right []string) error {
	in := func(set []string) map[string]bool {
		m := make(map[string]bool, len(set))
		for _, r := range set {
			m[r] = true
		}
		return m
	}
	l, r := in(left), in(right)
	var onlyLeft, onlyRight []string
	for _, x := range left {
		if !r[x] {
			onlyLeft = append(onlyLeft, x)
		}
	}
	for _, x := range right {
		if !l[x] {
			onlyRight = append(onlyRight, x)
		}
	}
	if len(onlyLeft) == 0 && len(onlyRight) == 0 {
		return nil
	}
	var parts []string
	if len(onlyLeft) > 0 {
		parts = append(parts, fmt.Sprintf("only in %s: %s", leftName, strings.Join(onlyLeft, ", ")))
	}
	if len(onlyRight) > 0 {
		parts = append(parts, fmt.Sprintf("only in %s: %s", rightName, strings.Join(onlyRight, ", ")))
	}
	return &dataset.DataContractError{Material: materialName, Reason: "region sets differ (" + strings.Join(parts, "; ") + ")"}
}
