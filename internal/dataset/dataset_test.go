package dataset

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObservations_DerivesAndCleans(t *testing.T) {
	raw := []HistoricalRecord{
		{Region: "R2", Year: 2001, IncomePerCapita: 2000, Population: 10, Consumption: 5},
		{Region: "R1", Year: 2012, IncomePerCapita: 3000, Population: 20, Consumption: 4},
		{Region: "R1", Year: 2005, IncomePerCapita: 2500, Population: 20, Consumption: 0},
		{Region: "R1", Year: 2008, IncomePerCapita: 2500, Population: 0, Consumption: 3},
		{Region: "R1", Year: 2009, IncomePerCapita: math.Inf(1), Population: 20, Consumption: 3},
		{Region: "R1", Year: 2010, IncomePerCapita: 2800, Population: 20, Consumption: 2},
	}
	got, dropped := Observations(raw, 2010)
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	want := []Observation{
		{Region: "R1", Year: 2010, IncomePerCapita: 2800, ConsumptionPerCapita: 0.1, YearsSinceReference: 0},
		{Region: "R1", Year: 2012, IncomePerCapita: 3000, ConsumptionPerCapita: 0.2, YearsSinceReference: 2},
		{Region: "R2", Year: 2001, IncomePerCapita: 2000, ConsumptionPerCapita: 0.5, YearsSinceReference: -9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Observations mismatch:\n%s", diff)
	}

	first, last := YearWindow(got)
	if first != 2001 || last != 2012 {
		t.Errorf("YearWindow = %d..%d, want 2001..2012", first, last)
	}
}

func TestResolveDrivers_PPPWinsAndMERConverted(t *testing.T) {
	ppp := []Driver{{Region: "R1", Year: 2020, Population: 10, IncomePerCapita: 5000}}
	mer := []MERDriver{
		{Region: "R1", Year: 2020, Population: 10, IncomeMER: 1},
		{Region: "R1", Year: 2030, Population: 11, IncomeMER: 4000},
	}
	factors := []ConversionFactor{
		{Region: "R1", Year: 2020, Factor: 9},
		{Region: "R1", Year: 2030, Factor: 1.5},
	}
	got, err := ResolveDrivers(ppp, mer, factors)
	if err != nil {
		t.Fatalf("ResolveDrivers: %v", err)
	}
	want := []Driver{
		{Region: "R1", Year: 2020, Population: 10, IncomePerCapita: 5000},
		{Region: "R1", Year: 2030, Population: 11, IncomePerCapita: 6000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveDrivers mismatch:\n%s", diff)
	}
}

func TestResolveDrivers_MissingFactor(t *testing.T) {
	mer := []MERDriver{{Region: "R9", Year: 2040, Population: 1, IncomeMER: 100}}
	_, err := ResolveDrivers(nil, mer, nil)
	if !IsDataContract(err) {
		t.Fatalf("err = %v, want DataContractError", err)
	}
}

func TestRegions(t *testing.T) {
	rows := []Driver{{Region: "B"}, {Region: "A"}, {Region: "B"}}
	got := Regions(rows, func(d Driver) string { return d.Region })
	if diff := cmp.Diff([]string{"A", "B"}, got); diff != "" {
		t.Errorf("Regions mismatch:\n%s", diff)
	}
}

func TestLoad_YAMLAndJSON(t *testing.T) {
	yamlDoc := `
scenario: SSP2
historical:
  steel:
    - {region: R1, year: 2000, income_per_capita: 1000, population: 5, consumption: 1}
drivers:
  - {region: R1, year: 2020, population: 6, income_per_capita: 2000}
base_year_actuals:
  steel:
    - {region: R1, value: 3}
`
	jsonDoc := `{"scenario":"SSP2","historical":{"steel":[{"region":"R1","year":2000,"income_per_capita":1000,"population":5,"consumption":1}]},
"drivers":[{"region":"R1","year":2020,"population":6,"income_per_capita":2000}],
"base_year_actuals":{"steel":[{"region":"R1","value":3}]}}`

	fromYAML, err := Load([]byte(yamlDoc), ".yml")
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}
	fromJSON, err := Load([]byte(jsonDoc), "")
	if err != nil {
		t.Fatalf("Load json: %v", err)
	}
	if diff := cmp.Diff(fromYAML, fromJSON); diff != "" {
		t.Errorf("yaml and json bundles differ:\n%s", diff)
	}
	if fromYAML.BaseYearActuals["steel"][0].Value != 3 {
		t.Errorf("base year actual = %+v", fromYAML.BaseYearActuals)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	if _, err := Load([]byte("{not json"), ".json"); err == nil {
		t.Fatal("expected parse error")
	}
}
