// Package material defines the bulk materials covered by the demand engine,
// the curve forms fitted for each of them and the static per-material
// configuration (initial guesses and convergence parameters).
package material

import (
	"sort"
	"strings"
)

// Material identifies a bulk material demand stream.
type Material string

const (
	Steel    Material = "steel"
	Cement   Material = "cement"
	Aluminum Material = "aluminum"
)

var known = map[Material]bool{
	Steel:    true,
	Cement:   true,
	Aluminum: true,
}

// Parse resolves a material name. Matching is case-insensitive and
// "aluminium" is accepted as a spelling of aluminum.
func Parse(s string) (Material, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "aluminium" {
		name = string(Aluminum)
	}
	m := Material(name)
	if !known[m] {
		return "", &ConfigError{Subject: "material", Value: s, Reason: "not registered"}
	}
	return m, nil
}

// All returns every registered material, sorted by name.
func All() []Material {
	out := make([]Material, 0, len(known))
	for m := range known {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m Material) String() string { return string(m) }
