package scenario

import (
	"fmt"
	"sort"

	"matdemand/internal/material"
)

// Adjust rescales the coefficients of spec's material that the mode table
// names and returns the result. Coefficients without a multiplier are copied
// unchanged. A multiplier naming a coefficient the form does not carry is a
// configuration error.
func Adjust(t *ModeTable, mode Mode, spec material.Spec, c material.Coefficients) (material.Coefficients, error) {
	mul, err := t.Multipliers(mode, spec.Material)
	if err != nil {
		return c, err
	}
	names := make([]string, 0, len(mul))
	for name := range mul {
		names = append(names, string(name))
	}
	sort.Strings(names)

	out := c
	for _, n := range names {
		name := material.Coef(n)
		if !spec.Form.Has(name) {
			return c, &material.ConfigError{
				Subject: "multiplier",
				Value:   fmt.Sprintf("%s.%s.%s", mode, spec.Material, name),
				Reason:  fmt.Sprintf("form %s has no such coefficient", spec.Form),
			}
		}
		v, _ := out.Get(name)
		out, _ = out.With(name, v*mul[name])
	}
	return out, nil
}
