package scenario

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"matdemand/internal/material"
)

func mustTable(t *testing.T) *ModeTable {
	t.Helper()
	tbl, err := DefaultModeTable()
	if err != nil {
		t.Fatalf("DefaultModeTable: %v", err)
	}
	return tbl
}

func TestResolve(t *testing.T) {
	tbl := mustTable(t)
	for label, want := range map[string]Mode{
		"SSP1":   Low,
		"ssp2":   Normal,
		"SSP3":   High,
		"SSP4":   Normal,
		"SSP5":   High,
		"LED":    Low,
		"normal": Normal,
		" HIGH ": High,
	} {
		got, err := tbl.Resolve(label)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", label, err)
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestResolve_UnknownLabel(t *testing.T) {
	_, err := mustTable(t).Resolve("SSP9")
	if !material.IsConfigError(err) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
}

func TestAdjust_Steel(t *testing.T) {
	tbl := mustTable(t)
	spec := material.Spec{Material: material.Steel, Form: material.IncomeTimeDecay}
	fitted := material.Coefficients{A: 100, B: -2000, M: 0.01}

	cases := map[Mode]material.Coefficients{
		Low:    {A: 85, B: -1900, M: 0.01},
		Normal: {A: 100, B: -2000, M: 0.01},
		High:   {A: 130, B: -2000, M: 0.01},
	}
	for mode, want := range cases {
		got, err := Adjust(tbl, mode, spec, fitted)
		if err != nil {
			t.Fatalf("Adjust(%s): %v", mode, err)
		}
		if diff := cmp.Diff(want, got, cmpFloat); diff != "" {
			t.Errorf("Adjust(%s) mismatch:\n%s", mode, diff)
		}
	}
}

func TestAdjust_CementKeepsElasticity(t *testing.T) {
	tbl := mustTable(t)
	spec := material.Spec{Material: material.Cement, Form: material.IncomeElasticity}
	fitted := material.Coefficients{A: 50, B: -3000}

	got, err := Adjust(tbl, Low, spec, fitted)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(material.Coefficients{A: 40, B: -3000}, got, cmpFloat); diff != "" {
		t.Errorf("cement low mismatch:\n%s", diff)
	}
}

func TestAdjust_DoesNotMutateInput(t *testing.T) {
	tbl := mustTable(t)
	spec := material.Spec{Material: material.Aluminum, Form: material.IncomeElasticity}
	fitted := material.Coefficients{A: 10, B: -100}
	if _, err := Adjust(tbl, High, spec, fitted); err != nil {
		t.Fatal(err)
	}
	if fitted.A != 10 || fitted.B != -100 {
		t.Errorf("input changed: %+v", fitted)
	}
}

func TestAdjust_MultiplierOnMissingCoefficient(t *testing.T) {
	tbl, err := ParseModeTable([]byte(`
multipliers:
  low:
    cement: {m: 0.5}
`))
	if err != nil {
		t.Fatal(err)
	}
	spec := material.Spec{Material: material.Cement, Form: material.IncomeElasticity}
	if _, err := Adjust(tbl, Low, spec, material.Coefficients{A: 1, B: -1}); !material.IsConfigError(err) {
		t.Errorf("err = %v, want ConfigError", err)
	}
}

func TestAdjust_UnknownModeTable(t *testing.T) {
	tbl, err := ParseModeTable([]byte("labels:\n  SSP2: normal\n"))
	if err != nil {
		t.Fatal(err)
	}
	spec := material.Spec{Material: material.Steel, Form: material.IncomeTimeDecay}
	if _, err := Adjust(tbl, Normal, spec, material.Coefficients{}); !material.IsConfigError(err) {
		t.Errorf("err = %v, want ConfigError", err)
	}
}

func TestParseModeTable_BadMode(t *testing.T) {
	if _, err := ParseModeTable([]byte("labels:\n  SSP2: medium\n")); !material.IsConfigError(err) {
		t.Errorf("err = %v, want ConfigError", err)
	}
}

var cmpFloat = cmp.Comparer(func(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1e-9*(1+abs(a))
})

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
