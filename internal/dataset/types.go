// Package dataset holds the input tables of a projection run and the
// adapters that turn raw historical and driver tables into the shapes the
// engine consumes.
//
// Units: totals in Mt, population in million persons, per-capita values in
// t/person, income in USD(PPP) per person.
package dataset

// HistoricalRecord is one raw historical region-year row.
type HistoricalRecord struct {
	Region          string  `json:"region" yaml:"region"`
	Year            int     `json:"year" yaml:"year"`
	IncomePerCapita float64 `json:"income_per_capita" yaml:"income_per_capita"`
	Population      float64 `json:"population" yaml:"population"`
	Consumption     float64 `json:"consumption" yaml:"consumption"`
}

// Observation is a cleaned historical observation used for curve fitting.
type Observation struct {
	Region               string
	Year                 int
	IncomePerCapita      float64
	ConsumptionPerCapita float64
	YearsSinceReference  float64
}

// Driver is a scenario population/income pair for one region-year.
type Driver struct {
	Region          string  `json:"region" yaml:"region"`
	Year            int     `json:"year" yaml:"year"`
	Population      float64 `json:"population" yaml:"population"`
	IncomePerCapita float64 `json:"income_per_capita" yaml:"income_per_capita"`
}

// MERDriver carries income at market exchange rates when no PPP series is
// available.
type MERDriver struct {
	Region     string  `json:"region" yaml:"region"`
	Year       int     `json:"year" yaml:"year"`
	Population float64 `json:"population" yaml:"population"`
	IncomeMER  float64 `json:"income_mer_per_capita" yaml:"income_mer_per_capita"`
}

// ConversionFactor converts MER income to PPP for one region-year.
type ConversionFactor struct {
	Region string  `json:"region" yaml:"region"`
	Year   int     `json:"year" yaml:"year"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// RegionValue is a single per-region quantity, used for base-year actuals
// and infrastructure offsets.
type RegionValue struct {
	Region string  `json:"region" yaml:"region"`
	Value  float64 `json:"value" yaml:"value"`
}

// Bundle is every input table of one scenario run. Per-material tables are
// keyed by material name.
type Bundle struct {
	Scenario              string                        `json:"scenario" yaml:"scenario"`
	BaseYear              int                           `json:"base_year,omitempty" yaml:"base_year,omitempty"`
	Historical            map[string][]HistoricalRecord `json:"historical" yaml:"historical"`
	Drivers               []Driver                      `json:"drivers,omitempty" yaml:"drivers,omitempty"`
	DriversMER            []MERDriver                   `json:"drivers_mer,omitempty" yaml:"drivers_mer,omitempty"`
	MERToPPP              []ConversionFactor            `json:"mer_to_ppp,omitempty" yaml:"mer_to_ppp,omitempty"`
	BaseYearActuals       map[string][]RegionValue      `json:"base_year_actuals" yaml:"base_year_actuals"`
	InfrastructureOffsets map[string][]RegionValue      `json:"infrastructure_offsets,omitempty" yaml:"infrastructure_offsets,omitempty"`
}
