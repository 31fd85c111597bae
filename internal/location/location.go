package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/model"
)

// Origin identifies the code location a run was launched from.
type Origin struct {
	// Location is the name of the code location.
	Location string `json:"location"`
	// Repository is the repository the run's pipeline belongs to.
	Repository string `json:"repository"`
	// URL is where the location server listens.
	URL       string `json:"url"`
	Namespace string `json:"namespace,omitempty"`
}

// Run is the part of a run record the lookup needs.
type Run struct {
	ID       string
	Pipeline string
	// Selection restricts the pipeline to a subset of its units. Empty means
	// the whole pipeline.
	Selection []string
	Origin    *Origin
}

// Selector names a pipeline subset within a location.
type Selector struct {
	Location   string   `json:"location"`
	Repository string   `json:"repository"`
	Pipeline   string   `json:"pipeline"`
	Selection  []string `json:"selection,omitempty"`
}

// ExternalPipeline is a pipeline as reported by the location hosting it.
type ExternalPipeline struct {
	Name       string         `json:"name"`
	Repository string         `json:"repository"`
	Location   string         `json:"location"`
	Units      []string       `json:"units"`
	Tags       map[string]any `json:"tags,omitempty"`
}

// Location is an open handle on a code location.
type Location interface {
	// Repositories lists the repositories the location serves.
	Repositories(ctx context.Context) ([]string, error)
	// Pipeline fetches the external representation of a pipeline subset.
	Pipeline(ctx context.Context, sel Selector) (*ExternalPipeline, error)
	// Close releases the handle.
	Close() error
}

// Dialer opens locations.
type Dialer interface {
	Dial(ctx context.Context, origin Origin) (Location, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, origin Origin) (Location, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, origin Origin) (Location, error) {
	return f(ctx, origin)
}

// WithExternalPipeline resolves the pipeline of run and calls fn with it. The
// location handle is released when fn returns, whatever the outcome. Errors
// from the dialer, the location and fn are returned wrapped.
func WithExternalPipeline(ctx context.Context, d Dialer, run *Run, fn func(context.Context, *ExternalPipeline) error) (err error) {
	if run == nil || run.Origin == nil {
		return errors.New("run has no code location origin")
	}
	origin := *run.Origin
	logger := ctxlog.FromContext(ctx).With("run", run.ID, "location", origin.Location)

	loc, err := d.Dial(ctx, origin)
	if err != nil {
		return fmt.Errorf("error opening location '%s': %w", origin.Location, err)
	}
	defer func() {
		if cerr := loc.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("error releasing location '%s': %w", origin.Location, cerr))
		}
		logger.Debug("WithExternalPipeline: Location released.")
	}()

	repos, err := loc.Repositories(ctx)
	if err != nil {
		return fmt.Errorf("error listing repositories of location '%s': %w", origin.Location, err)
	}
	if len(repos) != 1 {
		return model.Invariantf("location '%s' should serve exactly one repository, got %d", origin.Location, len(repos))
	}

	sel := Selector{
		Location:   origin.Location,
		Repository: repos[0],
		Pipeline:   run.Pipeline,
		Selection:  run.Selection,
	}
	logger.Debug("WithExternalPipeline: Fetching pipeline.", "repository", sel.Repository, "pipeline", sel.Pipeline, "selection", sel.Selection)

	pipeline, err := loc.Pipeline(ctx, sel)
	if err != nil {
		return fmt.Errorf("error fetching pipeline '%s': %w", sel.Pipeline, err)
	}
	return fn(ctx, pipeline)
}
