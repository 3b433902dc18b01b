package main

import (
	"github.com/spf13/cobra"

	"matdemand/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

// settings holds the environment defaults, loaded before any subcommand runs.
var settings envConfig

var rootCmd = &cobra.Command{
	Use:   "matdemand",
	Short: "Project bulk material demand from income and population scenarios",
	Long: "matdemand fits consumption-vs-income curves for steel, cement and aluminum,\n" +
		"adjusts them for a socioeconomic scenario and blends reported base-year\n" +
		"demand into the long-run trend.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $MATDEMAND_LOG_LEVEL or info)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json (default: $MATDEMAND_LOG_FORMAT or text)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := parseEnv()
	if err != nil {
		return err
	}
	settings = cfg
	level, format := settings.LogLevel, settings.LogFormat
	if rootFlags.logLevel != "" {
		level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		format = rootFlags.logFormat
	}
	logging.Init(logging.ParseLevel(level), format, cmd.ErrOrStderr())
	return nil
}
