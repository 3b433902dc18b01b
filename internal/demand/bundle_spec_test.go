package demand

import (
	"context"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"matdemand/internal/dataset"
	"matdemand/internal/fit"
	"matdemand/internal/material"
	"matdemand/internal/scenario"
)

var _ = ginkgo.Describe("RunAll on a scenario bundle", func() {
	var (
		bundle *dataset.Bundle
		inputs map[material.Material]Inputs
		cat    *material.Catalog
		modes  *scenario.ModeTable
	)

	ginkgo.BeforeEach(func() {
		var err error
		bundle, err = dataset.LoadFromPath(filepath.Join("testdata", "bundle.yaml"))
		gomega.Expect(err).To(gomega.Succeed())
		inputs, err = FromBundle(bundle)
		gomega.Expect(err).To(gomega.Succeed())
		cat, err = material.DefaultCatalog()
		gomega.Expect(err).To(gomega.Succeed())
		modes, err = scenario.DefaultModeTable()
		gomega.Expect(err).To(gomega.Succeed())
	})

	run := func(label string) map[material.Material]*Result {
		mode, err := modes.Resolve(label)
		gomega.Expect(err).To(gomega.Succeed())
		cfg := Config{Catalog: cat, Modes: modes, Mode: mode, BaseYear: bundle.BaseYear, Fit: fit.DefaultSettings()}
		out := make(map[material.Material]*Result)
		for _, o := range RunAll(context.Background(), cfg, inputs, RunOptions{Parallel: 2}) {
			gomega.Expect(o.Err).NotTo(gomega.HaveOccurred(), "material %s", o.Material)
			out[o.Material] = o.Result
		}
		return out
	}

	ginkgo.It("produces one row per region and year for every material", func() {
		results := run(bundle.Scenario)
		gomega.Expect(results).To(gomega.HaveLen(3))
		for m, res := range results {
			gomega.Expect(res.Rows).To(gomega.HaveLen(18), "material %s", m)
			for _, r := range res.Rows {
				gomega.Expect(r.Unit).To(gomega.Equal(UnitMt))
				gomega.Expect(r.Level).To(gomega.Equal(LevelDemand))
				gomega.Expect(r.Commodity).To(gomega.Equal(m.String()))
			}
		}
	})

	ginkgo.It("pins base-year totals to reported demand net of infrastructure", func() {
		want := map[material.Material]map[string]float64{
			material.Steel:    {"R1": 8.5, "R2": 6},
			material.Cement:   {"R1": 25, "R2": 7},
			material.Aluminum: {"R1": 0.9, "R2": 0.5},
		}
		for m, res := range run("SSP2") {
			for _, r := range res.Rows {
				if r.Year != 2020 {
					continue
				}
				gomega.Expect(r.Total).To(gomega.BeNumerically("~", want[m][r.Region], 1e-12), "%s/%s", m, r.Region)
			}
		}
	})

	ginkgo.It("recovers the generating coefficients", func() {
		results := run("SSP2")
		cement := results[material.Cement].Fitted.Coefficients
		gomega.Expect(cement.A).To(gomega.BeNumerically("~", 0.6, 1e-4))
		gomega.Expect(cement.B).To(gomega.BeNumerically("~", -2500, 1))
		aluminum := results[material.Aluminum].Fitted.Coefficients
		gomega.Expect(aluminum.A).To(gomega.BeNumerically("~", 0.025, 1e-5))
		gomega.Expect(aluminum.B).To(gomega.BeNumerically("~", -6000, 2))
	})

	ginkgo.It("uses MER-converted drivers where PPP income is missing", func() {
		results := run("SSP2")
		var found bool
		for _, r := range results[material.Steel].Rows {
			if r.Region == "R2" && r.Year == 2100 {
				found = true
				gomega.Expect(r.Total).To(gomega.BeNumerically(">", 0))
			}
		}
		gomega.Expect(found).To(gomega.BeTrue())
	})

	ginkgo.It("orders scenario modes at the end of the horizon", func() {
		low, high := run("SSP1"), run("SSP5")
		for m := range low {
			for i, r := range low[m].Rows {
				if r.Year != 2100 {
					continue
				}
				gomega.Expect(high[m].Rows[i].Total).To(gomega.BeNumerically(">", r.Total), "%s/%s", m, r.Region)
			}
		}
	})
})
