package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"matdemand/internal/demand"
	"matdemand/internal/fit"
	"matdemand/internal/material"
)

func openSQL(t *testing.T) Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "demand.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openMem(t *testing.T) Store { return NewMemStore() }

func row(m material.Material, region string, year int, total float64) demand.Row {
	return demand.Row{
		Material: m, Region: region, Year: year,
		PerCapita: total / 100, Total: total,
		Unit: demand.UnitMt, Time: demand.TimeAnnual, Commodity: m.String(), Level: demand.LevelDemand,
	}
}

func TestStores(t *testing.T) {
	impls := map[string]func(*testing.T) Store{"sqlite": openSQL, "memory": openMem}
	for name, open := range impls {
		t.Run(name, func(t *testing.T) {
			t.Run("RunsRoundTrip", func(t *testing.T) { testRuns(t, open(t)) })
			t.Run("RowsRoundTrip", func(t *testing.T) { testRows(t, open(t)) })
			t.Run("DuplicateRowRejected", func(t *testing.T) { testDuplicateRow(t, open(t)) })
			t.Run("SaveResult", func(t *testing.T) { testSaveResult(t, open(t)) })
		})
	}
}

func testRuns(t *testing.T, s Store) {
	id1, err := s.CreateRun(&Run{Scenario: "SSP2", Mode: "normal", BaseYear: 2020})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	id2, err := s.CreateRun(&Run{Scenario: "SSP5", Mode: "high", BaseYear: 2020, CreatedAt: "2026-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("run ids not increasing: %d, %d", id1, id2)
	}
	got, err := s.GetRun(id2)
	if err != nil || got == nil {
		t.Fatalf("GetRun: %+v %v", got, err)
	}
	want := &Run{ID: id2, Scenario: "SSP5", Mode: "high", BaseYear: 2020, CreatedAt: "2026-01-01T00:00:00Z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetRun mismatch (-want +got):\n%s", diff)
	}
	missing, err := s.GetRun(999)
	if err != nil || missing != nil {
		t.Errorf("GetRun(999) = %+v, %v; want nil, nil", missing, err)
	}
	runs, err := s.ListRuns()
	if err != nil || len(runs) != 2 || runs[0].ID != id1 {
		t.Fatalf("ListRuns: %+v %v", runs, err)
	}
	if runs[0].CreatedAt == "" {
		t.Error("CreatedAt not defaulted")
	}
}

func testRows(t *testing.T, s Store) {
	id, err := s.CreateRun(&Run{Scenario: "SSP2", Mode: "normal", BaseYear: 2020})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	steel := []demand.Row{row(material.Steel, "R2", 2020, 6), row(material.Steel, "R1", 2030, 9.1), row(material.Steel, "R1", 2020, 8.5)}
	cement := []demand.Row{row(material.Cement, "R1", 2020, 25)}
	if err := s.SaveRows(id, steel); err != nil {
		t.Fatalf("SaveRows steel: %v", err)
	}
	if err := s.SaveRows(id, cement); err != nil {
		t.Fatalf("SaveRows cement: %v", err)
	}

	got, err := s.ListRows(id, material.Steel)
	if err != nil {
		t.Fatalf("ListRows: %v", err)
	}
	want := []demand.Row{steel[2], steel[1], steel[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListRows(steel) mismatch (-want +got):\n%s", diff)
	}
	all, err := s.ListRows(id, "")
	if err != nil {
		t.Fatalf("ListRows all: %v", err)
	}
	if len(all) != 4 || all[0].Material != material.Cement {
		t.Errorf("ListRows all = %+v", all)
	}
	other, err := s.ListRows(id+1, "")
	if err != nil || len(other) != 0 {
		t.Errorf("ListRows(other run) = %+v, %v", other, err)
	}
}

func testDuplicateRow(t *testing.T, s Store) {
	id, err := s.CreateRun(&Run{Scenario: "SSP2", Mode: "normal", BaseYear: 2020})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := s.SaveRows(id, []demand.Row{row(material.Steel, "R1", 2020, 1)}); err != nil {
		t.Fatalf("SaveRows: %v", err)
	}
	batch := []demand.Row{row(material.Steel, "R1", 2030, 2), row(material.Steel, "R1", 2020, 3)}
	if err := s.SaveRows(id, batch); err == nil {
		t.Fatal("expected duplicate row error")
	}
	got, err := s.ListRows(id, material.Steel)
	if err != nil {
		t.Fatalf("ListRows: %v", err)
	}
	if len(got) != 1 || got[0].Total != 1 {
		t.Errorf("failed batch was partially stored: %+v", got)
	}
}

func testSaveResult(t *testing.T, s Store) {
	id, err := s.CreateRun(&Run{Scenario: "SSP2", Mode: "normal", BaseYear: 2020})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	res := &demand.Result{
		Material: material.Steel,
		Fitted: &fit.Result{
			Material:     material.Steel,
			Form:         material.IncomeTimeDecay,
			Coefficients: material.Coefficients{A: 0.5, B: -4000, M: 0.001},
			Iterations:   12, SSR: 1e-9, RMSE: 1e-6, RSquared: 0.999,
			Observations: 60, FirstYear: 1990, LastYear: 2019,
		},
		Adjusted: material.Coefficients{A: 0.65, B: -4000, M: 0.001},
		Rows:     []demand.Row{row(material.Steel, "R1", 2020, 8.5)},
	}
	if err := SaveResult(s, id, res); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	fits, err := s.ListFits(id)
	if err != nil {
		t.Fatalf("ListFits: %v", err)
	}
	want := []*Fit{{
		RunID: id, Material: material.Steel, Form: "income-time-decay",
		Fitted:     material.Coefficients{A: 0.5, B: -4000, M: 0.001},
		Adjusted:   material.Coefficients{A: 0.65, B: -4000, M: 0.001},
		Iterations: 12, SSR: 1e-9, RMSE: 1e-6, RSquared: 0.999,
		Observations: 60, FirstYear: 1990, LastYear: 2019,
	}}
	if diff := cmp.Diff(want, fits); diff != "" {
		t.Errorf("ListFits mismatch (-want +got):\n%s", diff)
	}
	if err := SaveResult(s, id, res); err == nil {
		t.Error("expected error storing the same material twice")
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := s.CreateRun(&Run{Scenario: "SSP1", Mode: "low", BaseYear: 2020})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.GetRun(id)
	if err != nil || got == nil || got.Scenario != "SSP1" {
		t.Fatalf("GetRun after reopen: %+v %v", got, err)
	}
}

func TestMemStore_UnknownRun(t *testing.T) {
	s := NewMemStore()
	if err := s.SaveRows(7, []demand.Row{row(material.Steel, "R1", 2020, 1)}); err == nil {
		t.Error("expected error for unknown run")
	}
	if err := s.SaveFit(&Fit{RunID: 7, Material: material.Steel}); err == nil {
		t.Error("expected error for unknown run")
	}
}
