package material

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed materials.yaml
var defaultCatalogYAML []byte

// Spec is the static curve configuration of one material.
type Spec struct {
	Material      Material
	Form          Form
	Guess         Coefficients
	Phi           float64
	Mu            float64
	ReferenceYear int
}

// Catalog resolves a Spec per material. It is immutable once loaded.
type Catalog struct {
	specs map[Material]Spec
}

type catalogFile struct {
	Materials map[string]struct {
		Form          string       `yaml:"form"`
		ReferenceYear int          `yaml:"reference_year"`
		Guess         Coefficients `yaml:"guess"`
		Phi           float64      `yaml:"phi"`
		Mu            float64      `yaml:"mu"`
	} `yaml:"materials"`
}

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse material catalog: %w", err)
	}
	c := &Catalog{specs: make(map[Material]Spec, len(f.Materials))}
	for name, raw := range f.Materials {
		m, err := Parse(name)
		if err != nil {
			return nil, err
		}
		form, err := ParseForm(raw.Form)
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", m, err)
		}
		if !(raw.Phi > 0) || !(raw.Mu > 0) || math.IsInf(raw.Phi, 0) || math.IsInf(raw.Mu, 0) {
			return nil, &ConfigError{Subject: "convergence parameters", Value: string(m),
				Reason: fmt.Sprintf("phi and mu must be positive, got phi=%g mu=%g", raw.Phi, raw.Mu)}
		}
		if form != IncomeTimeDecay && raw.Guess.M != 0 {
			return nil, &ConfigError{Subject: "initial guess", Value: string(m),
				Reason: fmt.Sprintf("form %s has no coefficient m", form)}
		}
		c.specs[m] = Spec{
			Material:      m,
			Form:          form,
			Guess:         raw.Guess,
			Phi:           raw.Phi,
			Mu:            raw.Mu,
			ReferenceYear: raw.ReferenceYear,
		}
	}
	return c, nil
}

// Spec returns the configuration of m.
func (c *Catalog) Spec(m Material) (Spec, error) {
	s, ok := c.specs[m]
	if !ok {
		return Spec{}, &ConfigError{Subject: "material", Value: string(m), Reason: "missing from catalog"}
	}
	return s, nil
}

// Materials lists the catalog's materials, sorted by name.
func (c *Catalog) Materials() []Material {
	out := make([]Material, 0, len(c.specs))
	for m := range c.specs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
