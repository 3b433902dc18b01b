package format

import (
	"fmt"

	"matdemand/internal/demand"
	"matdemand/internal/material"
	"matdemand/internal/scenario"
)

// DemandTable renders assembled demand rows.
func DemandTable(rows []demand.Row, m Mode) string {
	tb := NewTable(m)
	tb.Header("Material", "Region", "Year", "Per capita (t)", "Total", "Unit")
	tb.Columns(
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
	)
	for _, r := range rows {
		tb.Row(r.Material, r.Region, r.Year, FmtQuantity(r.PerCapita), FmtQuantity(r.Total), r.Unit)
	}
	return tb.String()
}

// FitTable renders fitted and scenario-adjusted coefficients with fit
// diagnostics, one line per material.
func FitTable(results []*demand.Result, m Mode) string {
	tb := NewTable(m)
	tb.Header("Material", "Form", "a", "b", "m", "Mode", "a'", "b'", "m'", "R²", "RMSE", "Iter", "Obs", "Window")
	for _, res := range results {
		f := res.Fitted
		if f == nil {
			continue
		}
		tb.Row(res.Material, f.Form,
			FmtCoef(f.Coefficients.A), FmtCoef(f.Coefficients.B), coefOrDash(f.Form, material.CoefM, f.Coefficients.M),
			res.Mode,
			FmtCoef(res.Adjusted.A), FmtCoef(res.Adjusted.B), coefOrDash(f.Form, material.CoefM, res.Adjusted.M),
			fmt.Sprintf("%.4f", f.RSquared), FmtCoef(f.RMSE), f.Iterations, f.Observations,
			fmt.Sprintf("%d-%d", f.FirstYear, f.LastYear))
	}
	return tb.String()
}

func coefOrDash(f material.Form, c material.Coef, v float64) string {
	if !f.Has(c) {
		return "-"
	}
	return FmtCoef(v)
}

// GapTable renders the base-year gap between reported and trend per capita
// demand for every region of every result.
func GapTable(results []*demand.Result, m Mode) string {
	tb := NewTable(m)
	tb.Header("Material", "Region", "Actual (t)", "Trend (t)", "Gap (t)")
	for _, res := range results {
		for _, g := range res.Gaps {
			tb.Row(res.Material, g.Region, FmtQuantity(g.Actual), FmtQuantity(g.TrendAtBase), FmtQuantity(g.Gap))
		}
	}
	return tb.String()
}

// OutcomeTable summarizes a multi-material run: one line per material with
// its status and either the row count or the failure.
func OutcomeTable(outcomes []demand.Outcome, m Mode) string {
	tb := NewTable(m)
	tb.Header("Material", "OK", "Rows", "Error")
	tb.Columns(ColumnConfig{Number: 4, MaxWidth: 80})
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			tb.Row(o.Material, BoolMark(false), 0, Truncate(o.Err.Error(), 200))
			continue
		}
		tb.Row(o.Material, BoolMark(true), len(o.Result.Rows), "")
	}
	tb.Footer("FAILED", failed, "", "")
	return tb.String()
}

// ModesTable renders the scenario label mapping and the multipliers of
// every mode and material.
func ModesTable(t *scenario.ModeTable, m Mode) (string, error) {
	labels := NewTable(m)
	labels.Header("Label", "Mode")
	for _, l := range t.Labels() {
		mode, err := t.Resolve(l)
		if err != nil {
			return "", err
		}
		labels.Row(l, mode)
	}

	mult := NewTable(m)
	mult.Header("Mode", "Material", "a", "b", "m")
	for _, mode := range []scenario.Mode{scenario.Low, scenario.Normal, scenario.High} {
		for _, mat := range material.All() {
			mm, err := t.Multipliers(mode, mat)
			if err != nil {
				return "", err
			}
			mult.Row(mode, mat, factor(mm, material.CoefA), factor(mm, material.CoefB), factor(mm, material.CoefM))
		}
	}
	return labels.String() + "\n\n" + mult.String(), nil
}

// factor prints an absent multiplier as 1, the pass-through value.
func factor(mm scenario.Multipliers, c material.Coef) string {
	if v, ok := mm[c]; ok {
		return FmtCoef(v)
	}
	return "1"
}
