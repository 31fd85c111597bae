package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/assetgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("assetgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
AssetGraph - compiles asset definitions into an executable job plan.

Usage:
  assetgraph [options] [DEFS_PATH...]

Arguments:
  DEFS_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	defsFlag := flagSet.String("defs", "", "Path to the definitions file or directory.")
	dFlag := flagSet.String("d", "", "Path to the definitions file or directory (shorthand).")
	jobFlag := flagSet.String("job", "", "Name of the job to compile. Optional when at most one job is declared.")
	formatFlag := flagSet.String("format", "", "Plan format. Options: 'json' or 'yaml'. Defaults to the output file extension, then json.")
	outputFlag := flagSet.String("output", "", "Write the plan to this file instead of stdout.")
	oFlag := flagSet.String("o", "", "Write the plan to this file instead of stdout (shorthand).")
	listJobsFlag := flagSet.Bool("list-jobs", false, "List the declared jobs and exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	if *defsFlag != "" {
		paths = append(paths, *defsFlag)
	} else if *dFlag != "" {
		paths = append(paths, *dFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Definition paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No definition path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	outPath := *outputFlag
	if outPath == "" {
		outPath = *oFlag
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DefsPaths: paths,
		Job:       *jobFlag,
		Format:    strings.ToLower(*formatFlag),
		Output:    outPath,
		ListJobs:  *listJobsFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
