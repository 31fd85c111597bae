package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/assetgraph/internal/plan"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DefsPaths []string // hcl files or directories
	Job       string

	Format   string // json or yaml, empty picks from Output
	Output   string // plan file, empty writes to the app's writer
	ListJobs bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.DefsPaths) == 0 {
		return nil, errors.New("DefsPaths is a required configuration field and cannot be empty")
	}

	switch cfg.Format {
	case "":
		cfg.Format = plan.FormatForPath(cfg.Output)
	case plan.FormatJSON, plan.FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format '%s': must be '%s' or '%s'", cfg.Format, plan.FormatJSON, plan.FormatYAML)
	}

	return &cfg, nil
}
