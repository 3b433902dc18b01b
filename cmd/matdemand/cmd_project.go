package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"matdemand/internal/dataset"
	"matdemand/internal/demand"
	"matdemand/internal/fit"
	"matdemand/internal/format"
	"matdemand/internal/logging"
	"matdemand/internal/store"
)

var projectFlags struct {
	input     string
	scenario  string
	materials []string
	baseYear  int
	db        string
	dryRun    bool
	format    string
	parallel  int
	timeout   time.Duration
	catalog   string
	modes     string
	maxIter   int
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Fit, adjust, project and blend demand for every material in an input bundle",
	Long: `Project runs the demand pipeline for each material of the input bundle:
fit the consumption curve on history, rescale it for the scenario mode,
evaluate it on the scenario drivers and converge the reported base-year
demand into the trend. Materials run independently; one failing material
does not stop the others. Rows are stored in the SQLite database.`,
	RunE: runProject,
}

func init() {
	f := projectCmd.Flags()
	f.StringVar(&projectFlags.input, "input", "", "Input bundle (YAML or JSON)")
	f.StringVar(&projectFlags.scenario, "scenario", "", "Scenario label or mode (default: bundle scenario)")
	f.StringSliceVar(&projectFlags.materials, "materials", nil, "Materials to project (default: all in the bundle)")
	f.IntVar(&projectFlags.baseYear, "base-year", 0, "Base year (default: bundle base_year or 2020)")
	f.StringVar(&projectFlags.db, "db", "", "SQLite database path (default: $MATDEMAND_DB or .matdemand/demand.db)")
	f.BoolVar(&projectFlags.dryRun, "dry-run", false, "Keep results in memory instead of writing the database")
	f.StringVar(&projectFlags.format, "format", "ascii", "Output format (ascii, markdown, csv)")
	f.IntVar(&projectFlags.parallel, "parallel", -1, "Concurrent material runs (default: $MATDEMAND_PARALLEL; 0 = one per material)")
	f.DurationVar(&projectFlags.timeout, "timeout", -1, "Per-material time budget (default: $MATDEMAND_TIMEOUT; 0 = none)")
	f.StringVar(&projectFlags.catalog, "catalog", "", "Material catalog YAML (default: embedded)")
	f.StringVar(&projectFlags.modes, "modes", "", "Scenario mode table YAML (default: embedded)")
	f.IntVar(&projectFlags.maxIter, "max-iterations", 0, "Curve fit iteration budget (default: 400)")
	_ = projectCmd.MarkFlagRequired("input")
}

func runProject(cmd *cobra.Command, _ []string) error {
	logger := logging.New("project")
	started := time.Now()

	mode, err := format.ParseMode(projectFlags.format)
	if err != nil {
		return err
	}
	bundle, err := dataset.LoadFromPath(projectFlags.input)
	if err != nil {
		return err
	}
	cat, modes, err := loadTables(projectFlags.catalog, projectFlags.modes)
	if err != nil {
		return err
	}
	label, err := scenarioLabel(projectFlags.scenario, bundle.Scenario)
	if err != nil {
		return err
	}
	scenarioMode, err := modes.Resolve(label)
	if err != nil {
		return err
	}
	all, err := demand.FromBundle(bundle)
	if err != nil {
		return err
	}
	inputs, err := selectMaterials(all, projectFlags.materials)
	if err != nil {
		return err
	}

	cfg := demand.Config{
		Catalog:  cat,
		Modes:    modes,
		Mode:     scenarioMode,
		BaseYear: firstNonZero(projectFlags.baseYear, bundle.BaseYear, demand.DefaultBaseYear),
		Fit:      fit.DefaultSettings(),
	}
	if projectFlags.maxIter > 0 {
		cfg.Fit.MaxIterations = projectFlags.maxIter
	}
	opts := demand.RunOptions{Parallel: settings.Parallel, Timeout: settings.Timeout}
	if projectFlags.parallel >= 0 {
		opts.Parallel = projectFlags.parallel
	}
	if projectFlags.timeout >= 0 {
		opts.Timeout = projectFlags.timeout
	}

	var st store.Store
	if projectFlags.dryRun {
		st = store.NewMemStore()
	} else {
		dbPath := projectFlags.db
		if dbPath == "" {
			dbPath = settings.DB
		}
		sqlStore, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		st = sqlStore
	}
	runID, err := st.CreateRun(&store.Run{Scenario: label, Mode: string(scenarioMode), BaseYear: cfg.BaseYear})
	if err != nil {
		return err
	}
	logger.Info("projecting", "run", runID, "scenario", label, "mode", string(scenarioMode), "materials", len(inputs))

	outcomes := demand.RunAll(cmd.Context(), cfg, inputs, opts)
	out := cmd.OutOrStdout()
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		if err := store.SaveResult(st, runID, o.Result); err != nil {
			return fmt.Errorf("store %s: %w", o.Material, err)
		}
		fmt.Fprintf(out, "%s (%s, run %d)\n", o.Material, scenarioMode, runID)
		fmt.Fprintln(out, format.DemandTable(o.Result.Rows, mode))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, format.OutcomeTable(outcomes, mode))
	logger.Info("projection finished", "run", runID, "failed", failed, "elapsed", format.FmtDuration(time.Since(started)))

	if failed > 0 {
		return fmt.Errorf("%d of %d materials failed", failed, len(outcomes))
	}
	return nil
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
