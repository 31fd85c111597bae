package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/assetgraph/internal/compiler"
	"github.com/specialistvlad/assetgraph/internal/plan"
)

// Run loads the definitions, compiles the selected job and writes its plan.
func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	ws, err := a.loader.Load(ctx, a.config.DefsPaths...)
	if err != nil {
		return fmt.Errorf("failed to load definitions: %w", err)
	}
	a.logger.Info("Definitions loaded.",
		"ops", len(ws.Definitions),
		"sources", len(ws.Sources),
		"jobs", len(ws.Jobs),
	)

	if a.config.ListJobs {
		for _, name := range ws.JobNames() {
			if _, err := fmt.Fprintln(a.outW, name); err != nil {
				return fmt.Errorf("failed to write job list: %w", err)
			}
		}
		return nil
	}

	job, err := ws.Job(a.config.Job)
	if err != nil {
		return err
	}

	p, err := compiler.BuildJob(ctx, a.compiler, job, a.translator)
	if err != nil {
		return err
	}
	a.logger.Info("Job compiled.", "job", job.Name, "units", len(p.Units))

	if a.config.Output != "" {
		if err := plan.WriteFile(p, a.config.Output, a.config.Format); err != nil {
			return err
		}
		a.logger.Info("Plan written.", "path", a.config.Output, "format", a.config.Format)
		return nil
	}

	if err := plan.Write(a.outW, p, a.config.Format); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
