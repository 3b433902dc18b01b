package main

import (
	"fmt"
	"sort"
	"strings"

	"matdemand/internal/demand"
	"matdemand/internal/fit"
	"matdemand/internal/material"
	"matdemand/internal/scenario"
	"matdemand/internal/store"
)

// loadTables returns the material catalog and scenario mode table, from the
// given files or the embedded defaults.
func loadTables(catalogPath, modesPath string) (*material.Catalog, *scenario.ModeTable, error) {
	var (
		cat   *material.Catalog
		modes *scenario.ModeTable
		err   error
	)
	if catalogPath != "" {
		cat, err = material.LoadCatalog(catalogPath)
	} else {
		cat, err = material.DefaultCatalog()
	}
	if err != nil {
		return nil, nil, err
	}
	if modesPath != "" {
		modes, err = scenario.LoadModeTable(modesPath)
	} else {
		modes, err = scenario.DefaultModeTable()
	}
	if err != nil {
		return nil, nil, err
	}
	return cat, modes, nil
}

// selectMaterials keeps the requested materials of inputs. An empty
// selection keeps everything.
func selectMaterials(inputs map[material.Material]demand.Inputs, names []string) (map[material.Material]demand.Inputs, error) {
	if len(names) == 0 {
		return inputs, nil
	}
	out := make(map[material.Material]demand.Inputs, len(names))
	for _, name := range names {
		m, err := material.Parse(name)
		if err != nil {
			return nil, err
		}
		in, ok := inputs[m]
		if !ok {
			return nil, fmt.Errorf("material %s: no data in input bundle", m)
		}
		out[m] = in
	}
	return out, nil
}

// scenarioLabel picks the flag value, falling back to the bundle's scenario.
func scenarioLabel(flag, bundle string) (string, error) {
	label := strings.TrimSpace(flag)
	if label == "" {
		label = strings.TrimSpace(bundle)
	}
	if label == "" {
		return "", fmt.Errorf("no scenario: set --scenario or the bundle's scenario field")
	}
	return label, nil
}

func sortedMaterials(inputs map[material.Material]demand.Inputs) []material.Material {
	out := make([]material.Material, 0, len(inputs))
	for m := range inputs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// fitResult rebuilds the fit part of a material result from its stored
// record so stored runs render like fresh ones.
func fitResult(run *store.Run, f *store.Fit) *demand.Result {
	form, _ := material.ParseForm(f.Form)
	return &demand.Result{
		Material: f.Material,
		Mode:     scenario.Mode(run.Mode),
		Fitted: &fit.Result{
			Material:     f.Material,
			Form:         form,
			Coefficients: f.Fitted,
			Iterations:   f.Iterations,
			SSR:          f.SSR,
			RMSE:         f.RMSE,
			RSquared:     f.RSquared,
			Observations: f.Observations,
			FirstYear:    f.FirstYear,
			LastYear:     f.LastYear,
		},
		Adjusted: f.Adjusted,
	}
}
