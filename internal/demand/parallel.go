package demand

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"matdemand/internal/logging"
	"matdemand/internal/material"
)

// RunOptions bound a multi-material run.
type RunOptions struct {
	Parallel int           // concurrent material runs; <= 0 means one per material
	Timeout  time.Duration // per-material budget; 0 means none
}

// Outcome is the result of one material in a multi-material run. Exactly
// one of Result and Err is set.
type Outcome struct {
	Material material.Material
	Result   *Result
	Err      error
}

// RunAll runs every material independently. A failing material does not
// stop the others; outcomes are returned sorted by material.
func RunAll(ctx context.Context, cfg Config, inputs map[material.Material]Inputs, opts RunOptions) []Outcome {
	logger := logging.New("parallel")

	mats := make([]material.Material, 0, len(inputs))
	for m := range inputs {
		mats = append(mats, m)
	}
	sort.Slice(mats, func(i, j int) bool { return mats[i] < mats[j] })

	outcomes := make([]Outcome, len(mats))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	logger.Info("starting material runs", "materials", len(mats), "parallel", opts.Parallel)
	for i, m := range mats {
		g.Go(func() error {
			runCtx := gctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(gctx, opts.Timeout)
				defer cancel()
			}
			res, err := Run(runCtx, cfg, m, inputs[m])
			outcomes[i] = Outcome{Material: m, Result: res, Err: err}
			if err != nil {
				logging.ForMaterial("parallel", m.String()).Error("material run failed", "error", err)
			}
			return nil // failures stay isolated per material
		})
	}
	_ = g.Wait()
	return outcomes
}
