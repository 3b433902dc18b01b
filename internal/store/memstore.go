package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"matdemand/internal/demand"
	"matdemand/internal/material"
)

type rowKey struct {
	runID    int64
	material material.Material
	region   string
	year     int
}

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu      sync.Mutex
	runs    map[int64]*Run
	nextRun int64
	fits    map[int64][]*Fit
	rows    map[int64][]demand.Row
	seen    map[rowKey]bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		runs: make(map[int64]*Run),
		fits: make(map[int64][]*Fit),
		rows: make(map[int64][]demand.Row),
		seen: make(map[rowKey]bool),
	}
}

func (s *MemStore) CreateRun(run *Run) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRun++
	cp := *run
	cp.ID = s.nextRun
	if cp.CreatedAt == "" {
		cp.CreatedAt = nowUTC()
	}
	s.runs[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemStore) GetRun(runID int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *MemStore) ListRuns() ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Run, 0, len(s.runs))
	for _, r := range s.runs {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) SaveFit(f *Fit) error {
	if f == nil {
		return errors.New("fit is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[f.RunID]; !ok {
		return fmt.Errorf("insert fit %s: run %d not found", f.Material, f.RunID)
	}
	for _, existing := range s.fits[f.RunID] {
		if existing.Material == f.Material {
			return fmt.Errorf("insert fit %s: already stored for run %d", f.Material, f.RunID)
		}
	}
	cp := *f
	s.fits[f.RunID] = append(s.fits[f.RunID], &cp)
	return nil
}

func (s *MemStore) ListFits(runID int64) ([]*Fit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Fit, 0, len(s.fits[runID]))
	for _, f := range s.fits[runID] {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out, nil
}

// SaveRows is all-or-nothing like the SQLite transaction.
func (s *MemStore) SaveRows(runID int64, rows []demand.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("insert demand: run %d not found", runID)
	}
	batch := make(map[rowKey]bool, len(rows))
	for _, r := range rows {
		k := rowKey{runID, r.Material, r.Region, r.Year}
		if s.seen[k] || batch[k] {
			return fmt.Errorf("insert demand %s/%s/%d: duplicate row", r.Material, r.Region, r.Year)
		}
		batch[k] = true
	}
	for k := range batch {
		s.seen[k] = true
	}
	s.rows[runID] = append(s.rows[runID], rows...)
	return nil
}

func (s *MemStore) ListRows(runID int64, m material.Material) ([]demand.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []demand.Row
	for _, r := range s.rows[runID] {
		if m == "" || r.Material == m {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Year < b.Year
	})
	return out, nil
}
