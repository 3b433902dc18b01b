package demand

import (
	"math"
	"testing"

	"matdemand/internal/dataset"
	"matdemand/internal/fit"
	"matdemand/internal/material"
	"matdemand/internal/scenario"
)

// fixture builds two regions whose historical and projected income grow
// steadily, with consumption generated from a known curve.
type fixture struct {
	truth      material.Coefficients
	historical []dataset.HistoricalRecord
	drivers    []dataset.Driver
	actuals    []dataset.RegionValue
	offsets    []dataset.RegionValue
}

func newSteelFixture() fixture {
	f := newFixture(material.IncomeTimeDecay, material.Coefficients{A: 0.5, B: -4000, M: 0.001})
	f.actuals = []dataset.RegionValue{{Region: "R1", Value: 10}, {Region: "R2", Value: 6}}
	f.offsets = []dataset.RegionValue{{Region: "R1", Value: 1.5}}
	return f
}

func newAluminumFixture() fixture {
	f := newFixture(material.IncomeElasticity, material.Coefficients{A: 0.025, B: -6000})
	f.actuals = []dataset.RegionValue{{Region: "R1", Value: 0.9}, {Region: "R2", Value: 0.5}}
	return f
}

func newFixture(form material.Form, truth material.Coefficients) fixture {
	f := fixture{truth: truth}
	type region struct {
		name       string
		histIncome float64
		income     float64
		population float64
	}
	regions := []region{
		{name: "R1", histIncome: 1500, income: 5000, population: 100},
		{name: "R2", histIncome: 2500, income: 8000, population: 40},
	}
	for _, r := range regions {
		for year := 1990; year < 2020; year++ {
			income := r.histIncome * math.Pow(1.04, float64(year-1990))
			pc := form.Eval(truth, material.Input{IncomePerCapita: income, YearsSinceReference: float64(year - 2010)})
			pop := r.population * 0.8
			f.historical = append(f.historical, dataset.HistoricalRecord{
				Region:          r.name,
				Year:            year,
				IncomePerCapita: income,
				Population:      pop,
				Consumption:     pc * pop,
			})
		}
		for year := 2020; year <= 2100; year += 5 {
			f.drivers = append(f.drivers, dataset.Driver{
				Region:          r.name,
				Year:            year,
				Population:      r.population * math.Pow(1.005, float64(year-2020)),
				IncomePerCapita: r.income * math.Pow(1.03, float64(year-2020)),
			})
		}
	}
	return f
}

func (f fixture) inputs() Inputs {
	return Inputs{
		Historical:            f.historical,
		Drivers:               f.drivers,
		BaseYearActuals:       f.actuals,
		InfrastructureOffsets: f.offsets,
	}
}

func testConfig(t *testing.T, mode scenario.Mode) Config {
	t.Helper()
	cat, err := material.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	modes, err := scenario.DefaultModeTable()
	if err != nil {
		t.Fatalf("DefaultModeTable: %v", err)
	}
	return Config{Catalog: cat, Modes: modes, Mode: mode, BaseYear: 2020, Fit: fit.DefaultSettings()}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
