package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matdemand/internal/dataset"
	"matdemand/internal/demand"
	"matdemand/internal/fit"
	"matdemand/internal/format"
	"matdemand/internal/scenario"
)

var fitFlags struct {
	input     string
	scenario  string
	materials []string
	format    string
	catalog   string
	modes     string
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the consumption curves and show coefficients and diagnostics",
	Long: `Fit runs only the regression step on the bundle's historical data and
prints the fitted coefficients next to the scenario-adjusted ones. Drivers
and base-year demand are not needed.`,
	RunE: runFit,
}

func init() {
	f := fitCmd.Flags()
	f.StringVar(&fitFlags.input, "input", "", "Input bundle (YAML or JSON)")
	f.StringVar(&fitFlags.scenario, "scenario", "", "Scenario label or mode (default: bundle scenario, else normal)")
	f.StringSliceVar(&fitFlags.materials, "materials", nil, "Materials to fit (default: all in the bundle)")
	f.StringVar(&fitFlags.format, "format", "ascii", "Output format (ascii, markdown, csv)")
	f.StringVar(&fitFlags.catalog, "catalog", "", "Material catalog YAML (default: embedded)")
	f.StringVar(&fitFlags.modes, "modes", "", "Scenario mode table YAML (default: embedded)")
	_ = fitCmd.MarkFlagRequired("input")
}

func runFit(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(fitFlags.format)
	if err != nil {
		return err
	}
	bundle, err := dataset.LoadFromPath(fitFlags.input)
	if err != nil {
		return err
	}
	cat, modes, err := loadTables(fitFlags.catalog, fitFlags.modes)
	if err != nil {
		return err
	}
	scenarioMode := scenario.Normal
	if label, err := scenarioLabel(fitFlags.scenario, bundle.Scenario); err == nil {
		if scenarioMode, err = modes.Resolve(label); err != nil {
			return err
		}
	}
	all, err := demand.FromBundle(bundle)
	if err != nil {
		return err
	}
	inputs, err := selectMaterials(all, fitFlags.materials)
	if err != nil {
		return err
	}

	var results []*demand.Result
	for _, m := range sortedMaterials(inputs) {
		spec, err := cat.Spec(m)
		if err != nil {
			return err
		}
		obs, _ := dataset.Observations(inputs[m].Historical, spec.ReferenceYear)
		fitted, err := fit.Fit(cmd.Context(), spec, obs, fit.DefaultSettings())
		if err != nil {
			return err
		}
		adjusted, err := scenario.Adjust(modes, scenarioMode, spec, fitted.Coefficients)
		if err != nil {
			return err
		}
		results = append(results, &demand.Result{Material: m, Mode: scenarioMode, Fitted: fitted, Adjusted: adjusted})
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.FitTable(results, mode))
	return nil
}
