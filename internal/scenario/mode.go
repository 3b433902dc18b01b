// Package scenario maps socioeconomic scenario labels onto growth modes and
// rescales fitted curve coefficients for the selected mode.
package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"matdemand/internal/material"
)

//go:embed modes.yaml
var defaultModesYAML []byte

// Mode is a socioeconomic growth mode.
type Mode string

const (
	Low    Mode = "low"
	Normal Mode = "normal"
	High   Mode = "high"
)

func (m Mode) valid() bool { return m == Low || m == Normal || m == High }

// Multipliers maps a coefficient name to its scale factor.
type Multipliers map[material.Coef]float64

// ModeTable is the immutable label→mode mapping together with the
// per-mode, per-material coefficient multipliers. Build it once and pass it
// to Adjust explicitly.
type ModeTable struct {
	labels      map[string]Mode
	multipliers map[Mode]map[material.Material]Multipliers
}

type modesFile struct {
	Labels      map[string]string                        `yaml:"labels"`
	Multipliers map[string]map[string]map[string]float64 `yaml:"multipliers"`
}

// DefaultModeTable returns the table shipped with the binary.
func DefaultModeTable() (*ModeTable, error) {
	return ParseModeTable(defaultModesYAML)
}

// LoadModeTable reads a mode table YAML file.
func LoadModeTable(path string) (*ModeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mode table: %w", err)
	}
	return ParseModeTable(data)
}

// ParseModeTable decodes and validates mode table YAML.
func ParseModeTable(data []byte) (*ModeTable, error) {
	var f modesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse mode table: %w", err)
	}
	t := &ModeTable{
		labels:      make(map[string]Mode, len(f.Labels)),
		multipliers: make(map[Mode]map[material.Material]Multipliers, len(f.Multipliers)),
	}
	for label, raw := range f.Labels {
		m := Mode(strings.ToLower(raw))
		if !m.valid() {
			return nil, &material.ConfigError{Subject: "scenario mode", Value: raw, Reason: "label " + label + " maps to an unknown mode"}
		}
		t.labels[strings.ToUpper(label)] = m
	}
	for rawMode, perMaterial := range f.Multipliers {
		m := Mode(strings.ToLower(rawMode))
		if !m.valid() {
			return nil, &material.ConfigError{Subject: "scenario mode", Value: rawMode, Reason: "unknown mode"}
		}
		byMat := make(map[material.Material]Multipliers, len(perMaterial))
		for rawMat, coefs := range perMaterial {
			mat, err := material.Parse(rawMat)
			if err != nil {
				return nil, err
			}
			mul := make(Multipliers, len(coefs))
			for name, v := range coefs {
				mul[material.Coef(strings.ToLower(name))] = v
			}
			byMat[mat] = mul
		}
		t.multipliers[m] = byMat
	}
	return t, nil
}

// Resolve maps a scenario label (e.g. "SSP2") or a mode name to a Mode.
func (t *ModeTable) Resolve(label string) (Mode, error) {
	key := strings.TrimSpace(label)
	if m := Mode(strings.ToLower(key)); m.valid() {
		return m, nil
	}
	if m, ok := t.labels[strings.ToUpper(key)]; ok {
		return m, nil
	}
	return "", &material.ConfigError{Subject: "scenario label", Value: label, Reason: "not mapped to a mode (known: " + strings.Join(t.Labels(), ", ") + ")"}
}

// Labels lists the scenario labels the table knows, sorted.
func (t *ModeTable) Labels() []string {
	out := make([]string, 0, len(t.labels))
	for l := range t.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Multipliers returns the multipliers of mat under mode. A material absent
// from the mode's table has no multipliers and is passed through unchanged.
func (t *ModeTable) Multipliers(mode Mode, mat material.Material) (Multipliers, error) {
	byMat, ok := t.multipliers[mode]
	if !ok {
		return nil, &material.ConfigError{Subject: "scenario mode", Value: string(mode), Reason: "no multiplier table"}
	}
	return byMat[mat], nil
}
