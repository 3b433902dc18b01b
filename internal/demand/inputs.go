package demand

import (
	"sort"

	"matdemand/internal/dataset"
	"matdemand/internal/material"
)

// FromBundle splits a bundle into per-material inputs. Drivers are resolved
// once (PPP, or MER converted to PPP) and shared by every material.
func FromBundle(b *dataset.Bundle) (map[material.Material]Inputs, error) {
	drivers, err := b.ResolvedDrivers()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(b.Historical))
	for name := range b.Historical {
		names = append(names, name)
	}
	for name := range b.BaseYearActuals {
		if _, ok := b.Historical[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make(map[material.Material]Inputs, len(names))
	for _, name := range names {
		m, err := material.Parse(name)
		if err != nil {
			return nil, err
		}
		out[m] = Inputs{
			Historical:            b.Historical[name],
			Drivers:               drivers,
			BaseYearActuals:       b.BaseYearActuals[name],
			InfrastructureOffsets: b.InfrastructureOffsets[name],
		}
	}
	for name := range b.InfrastructureOffsets {
		m, err := material.Parse(name)
		if err != nil {
			return nil, err
		}
		if _, ok := out[m]; !ok {
			return nil, &dataset.DataContractError{Material: name, Reason: "infrastructure offsets without historical data or base-year demand"}
		}
	}
	return out, nil
}
