package material

import (
	"fmt"
	"math"
	"strings"
)

// Coef names one coefficient of a curve form.
type Coef string

const (
	CoefA Coef = "a" // scale
	CoefB Coef = "b" // income elasticity, expected negative
	CoefM Coef = "m" // geometric time decay
)

// Coefficients is the named coefficient record shared by every form.
// Forms that do not use M leave it at zero.
type Coefficients struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	M float64 `json:"m,omitempty" yaml:"m,omitempty"`
}

// Get returns the coefficient with the given name.
func (c Coefficients) Get(name Coef) (float64, error) {
	switch name {
	case CoefA:
		return c.A, nil
	case CoefB:
		return c.B, nil
	case CoefM:
		return c.M, nil
	}
	return 0, &ConfigError{Subject: "coefficient", Value: string(name), Reason: "unknown name"}
}

// With returns a copy of c with the named coefficient replaced.
func (c Coefficients) With(name Coef, v float64) (Coefficients, error) {
	switch name {
	case CoefA:
		c.A = v
	case CoefB:
		c.B = v
	case CoefM:
		c.M = v
	default:
		return c, &ConfigError{Subject: "coefficient", Value: string(name), Reason: "unknown name"}
	}
	return c, nil
}

// Input holds the explanatory variables of one curve evaluation.
type Input struct {
	IncomePerCapita     float64
	YearsSinceReference float64
}

// Form is a fitted functional form of per-capita consumption.
type Form int

const (
	// IncomeTimeDecay is a·exp(b/x)·(1−m)^t, used for steel.
	IncomeTimeDecay Form = iota + 1
	// IncomeElasticity is a·exp(b/x), used for cement and aluminum.
	IncomeElasticity
)

var formNames = map[Form]string{
	IncomeTimeDecay:  "income-time-decay",
	IncomeElasticity: "income-elasticity",
}

// ParseForm resolves a form name as written in the material catalog.
func ParseForm(s string) (Form, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range formNames {
		if n == name {
			return f, nil
		}
	}
	return 0, &ConfigError{Subject: "functional form", Value: s, Reason: "no registered implementation"}
}

func (f Form) String() string {
	if n, ok := formNames[f]; ok {
		return n
	}
	return fmt.Sprintf("form(%d)", int(f))
}

// Params lists the coefficients the form is fitted on, in solver order.
func (f Form) Params() []Coef {
	switch f {
	case IncomeTimeDecay:
		return []Coef{CoefA, CoefB, CoefM}
	case IncomeElasticity:
		return []Coef{CoefA, CoefB}
	}
	return nil
}

// Has reports whether name is one of the form's coefficients.
func (f Form) Has(name Coef) bool {
	for _, p := range f.Params() {
		if p == name {
			return true
		}
	}
	return false
}

// Eval evaluates the form at in.
func (f Form) Eval(c Coefficients, in Input) float64 {
	v := c.A * math.Exp(c.B/in.IncomePerCapita)
	if f == IncomeTimeDecay {
		v *= math.Pow(1-c.M, in.YearsSinceReference)
	}
	return v
}

// Partials writes the derivatives of Eval with respect to Params() into dst
// and returns the function value.
func (f Form) Partials(c Coefficients, in Input, dst []float64) float64 {
	v := f.Eval(c, in)
	// ∂/∂a = v/a is undefined at a = 0, so the exponential term is recomputed.
	base := math.Exp(c.B / in.IncomePerCapita)
	switch f {
	case IncomeTimeDecay:
		decay := math.Pow(1-c.M, in.YearsSinceReference)
		dst[0] = base * decay
		dst[1] = v / in.IncomePerCapita
		dst[2] = -in.YearsSinceReference * c.A * base * math.Pow(1-c.M, in.YearsSinceReference-1)
	case IncomeElasticity:
		dst[0] = base
		dst[1] = v / in.IncomePerCapita
	}
	return v
}

// Vector packs c in Params() order.
func (f Form) Vector(c Coefficients) []float64 {
	params := f.Params()
	out := make([]float64, len(params))
	for i, p := range params {
		out[i], _ = c.Get(p)
	}
	return out
}

// FromVector unpacks a Params()-ordered vector.
func (f Form) FromVector(v []float64) Coefficients {
	var c Coefficients
	for i, p := range f.Params() {
		if i < len(v) {
			c, _ = c.With(p, v[i])
		}
	}
	return c
}
