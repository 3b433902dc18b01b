package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matdemand/internal/demand"
	"matdemand/internal/format"
	"matdemand/internal/material"
	"matdemand/internal/store"
)

var runsFlags struct {
	db       string
	run      int64
	material string
	format   string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored projection runs, or show the rows and fits of one run",
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.StringVar(&runsFlags.db, "db", "", "SQLite database path (default: $MATDEMAND_DB or .matdemand/demand.db)")
	f.Int64Var(&runsFlags.run, "run", 0, "Run id to show (default: list runs)")
	f.StringVar(&runsFlags.material, "material", "", "Only show this material")
	f.StringVar(&runsFlags.format, "format", "ascii", "Output format (ascii, markdown, csv)")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(runsFlags.format)
	if err != nil {
		return err
	}
	dbPath := runsFlags.db
	if dbPath == "" {
		dbPath = settings.DB
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	out := cmd.OutOrStdout()

	if runsFlags.run == 0 {
		runs, err := st.ListRuns()
		if err != nil {
			return err
		}
		tb := format.NewTable(mode)
		tb.Header("Run", "Scenario", "Mode", "Base year", "Created")
		for _, r := range runs {
			tb.Row(r.ID, r.Scenario, r.Mode, r.BaseYear, r.CreatedAt)
		}
		fmt.Fprintln(out, tb.String())
		return nil
	}

	run, err := st.GetRun(runsFlags.run)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found in %s", runsFlags.run, dbPath)
	}
	var only material.Material
	if runsFlags.material != "" {
		if only, err = material.Parse(runsFlags.material); err != nil {
			return err
		}
	}
	fits, err := st.ListFits(run.ID)
	if err != nil {
		return err
	}
	var results []*demand.Result
	for _, f := range fits {
		if only != "" && f.Material != only {
			continue
		}
		results = append(results, fitResult(run, f))
	}
	rows, err := st.ListRows(run.ID, only)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "run %d: %s (%s), base year %d\n", run.ID, run.Scenario, run.Mode, run.BaseYear)
	fmt.Fprintln(out, format.FitTable(results, mode))
	fmt.Fprintln(out)
	fmt.Fprintln(out, format.DemandTable(rows, mode))
	return nil
}
