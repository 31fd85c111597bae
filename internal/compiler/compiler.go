package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/builder"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/cycles"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/specialistvlad/assetgraph/internal/partition"
	"github.com/specialistvlad/assetgraph/internal/resolver"
	"github.com/specialistvlad/assetgraph/internal/resource"
)

// Compiler compiles jobs. The zero value is not usable; use New.
type Compiler struct {
	checker *resource.Checker
}

// New returns a Compiler whose resource checker uses the given default
// table. A nil table selects resource.Defaults().
func New(defaults map[string]model.Resource) *Compiler {
	if defaults == nil {
		defaults = resource.Defaults()
	}
	return &Compiler{checker: resource.NewChecker(defaults)}
}

// Compile compiles job with the default resource table.
func Compile(ctx context.Context, job *Job) (*Compiled, error) {
	return New(nil).Compile(ctx, job)
}

// BuildJob compiles job and hands the result to tr. Translator errors are
// returned wrapped, never replaced.
func BuildJob[J any](ctx context.Context, c *Compiler, job *Job, tr Translator[J]) (J, error) {
	var zero J
	compiled, err := c.Compile(ctx, job)
	if err != nil {
		return zero, err
	}
	out, err := tr.Translate(ctx, compiled)
	if err != nil {
		return zero, fmt.Errorf("error translating job '%s': %w", job.Name, err)
	}
	return out, nil
}

// Compile runs every stage on job. No partial result is returned on error.
func (c *Compiler) Compile(ctx context.Context, job *Job) (*Compiled, error) {
	logger := ctxlog.FromContext(ctx).With("job", job.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Compile: Starting.", "definitions", len(job.Definitions), "sources", len(job.Sources)+len(job.SourceDefinitions))

	for _, d := range job.Definitions {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	policy, err := partition.Unify(ctx, job.Definitions)
	if err != nil {
		return nil, err
	}
	if job.Partitions != nil {
		logger.Debug("Compile: Job partition policy overrides unified policy.", "policy", job.Partitions.String())
		policy = job.Partitions
	}

	sources := collectSources(job)
	if err := checkSourcesNotProduced(job.Definitions, sources); err != nil {
		return nil, err
	}

	defs := job.Definitions
	resolved, graph, err := assemble(ctx, defs, sources)
	if err != nil {
		return nil, err
	}

	var split []*model.Definition
	cyclic, err := cycles.HasCycle(graph.Deps)
	if err != nil {
		return nil, err
	}
	if cyclic {
		logger.Debug("Compile: Unit graph is cyclic, attempting resolution.")
		res, err := cycles.Resolve(ctx, defs, resolved)
		if err != nil {
			return nil, err
		}
		defs, split = res.Definitions, res.Split

		resolved, graph, err = assemble(ctx, defs, sources)
		if err != nil {
			return nil, err
		}
		cycle, err := cycles.FindCycle(graph.Deps)
		if err != nil {
			return nil, err
		}
		if cycle != nil {
			return nil, unresolvedCycle(cycle, res.Unsplittable)
		}
		logger.Debug("Compile: Cycle resolved.", "split", len(split), "units", len(graph.Units))
	}

	resources, err := c.checker.Merge(ctx, defs, sources, job.Resources)
	if err != nil {
		return nil, err
	}

	logger.Debug("Compile: Done.", "units", len(graph.Units), "resources", len(resources))
	return &Compiled{
		Name:        job.Name,
		Description: job.Description,
		Tags:        job.Tags,
		Executor:    job.Executor,
		Graph:       graph,
		Definitions: defs,
		Sources:     sources,
		Resolved:    resolved,
		Split:       split,
		Resources:   resources,
		Partitions:  policy,
	}, nil
}

func assemble(ctx context.Context, defs []*model.Definition, sources []*model.SourceAsset) (resolver.Resolved, *builder.Graph, error) {
	resolved, err := resolver.Resolve(ctx, defs, sources)
	if err != nil {
		return nil, nil, err
	}
	graph, err := builder.Build(ctx, defs, resolved)
	if err != nil {
		return nil, nil, err
	}
	return resolved, graph, nil
}

func collectSources(job *Job) []*model.SourceAsset {
	sources := make([]*model.SourceAsset, 0, len(job.Sources))
	sources = append(sources, job.Sources...)
	for _, d := range job.SourceDefinitions {
		sources = append(sources, d.ToSourceAssets()...)
	}
	return sources
}

func checkSourcesNotProduced(defs []*model.Definition, sources []*model.SourceAsset) error {
	owners := make(map[assetkey.Key]*model.Definition)
	for _, d := range defs {
		for _, k := range d.Keys() {
			owners[k] = d
		}
	}
	seen := make(map[assetkey.Key]struct{}, len(sources))
	for _, s := range sources {
		if d, ok := owners[s.Key]; ok {
			return model.Definitionf(s.Key, d.Name, "asset is produced in the job and also supplied as a source")
		}
		if _, dup := seen[s.Key]; dup {
			return model.Definitionf(s.Key, "", "source asset is supplied more than once")
		}
		seen[s.Key] = struct{}{}
	}
	return nil
}

func unresolvedCycle(cycle []string, unsplittable []*model.Definition) error {
	reason := "units form a dependency cycle that could not be resolved: " + strings.Join(cycle, " -> ")
	if len(unsplittable) == 0 {
		return &model.DefinitionError{Reason: reason}
	}
	names := make([]string, 0, len(unsplittable))
	for _, d := range unsplittable {
		names = append(names, fmt.Sprintf("'%s' (asset '%s')", d.Name, d.Label()))
	}
	first := unsplittable[0]
	return model.Definitionf(first.FirstKey(), first.Name,
		"%s; these computations must be split but are not subsettable: %s", reason, strings.Join(names, ", "))
}
