package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"matdemand/internal/store"
)

// envConfig is the environment layer of the CLI configuration. Flags
// override it.
type envConfig struct {
	LogLevel  string        `env:"MATDEMAND_LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"MATDEMAND_LOG_FORMAT" envDefault:"text"`
	DB        string        `env:"MATDEMAND_DB" envDefault:".matdemand/demand.db"`
	Parallel  int           `env:"MATDEMAND_PARALLEL" envDefault:"0"`
	Timeout   time.Duration `env:"MATDEMAND_TIMEOUT" envDefault:"0s"`
}

// parseEnv loads configuration from environment variables.
func parseEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DB == "" {
		cfg.DB = store.DefaultDBPath
	}
	return cfg, nil
}
