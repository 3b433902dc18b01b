package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matdemand/internal/format"
	"matdemand/internal/scenario"
)

var modesFlags struct {
	modes  string
	format string
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List scenario labels and the coefficient multipliers of each mode",
	RunE:  runModes,
}

func init() {
	f := modesCmd.Flags()
	f.StringVar(&modesFlags.modes, "modes", "", "Scenario mode table YAML (default: embedded)")
	f.StringVar(&modesFlags.format, "format", "ascii", "Output format (ascii, markdown, csv)")
}

func runModes(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(modesFlags.format)
	if err != nil {
		return err
	}
	var table *scenario.ModeTable
	if modesFlags.modes != "" {
		table, err = scenario.LoadModeTable(modesFlags.modes)
	} else {
		table, err = scenario.DefaultModeTable()
	}
	if err != nil {
		return err
	}
	out, err := format.ModesTable(table, mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
