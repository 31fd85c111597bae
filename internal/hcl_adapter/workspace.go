package hcl_adapter

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/specialistvlad/assetgraph/internal/compiler"
	"github.com/specialistvlad/assetgraph/internal/model"
)

// JobSpec is a job block after translation.
type JobSpec struct {
	Name        string
	Description string
	Tags        map[string]string
	Executor    string
	Partitions  *model.PartitionPolicy
	Ops         []string
	SourceOps   []string
}

// Workspace holds every block loaded from a set of files.
type Workspace struct {
	// Definitions are the ops in file order.
	Definitions []*model.Definition
	Sources     []*model.SourceAsset
	// Resources are the top-level (job) resource bindings.
	Resources  map[string]model.Resource
	Partitions map[string]*model.PartitionPolicy
	Jobs       map[string]*JobSpec
}

// JobNames returns the declared job names in sorted order.
func (w *Workspace) JobNames() []string {
	names := slices.Collect(maps.Keys(w.Jobs))
	sort.Strings(names)
	return names
}

// Job builds the compiler input for the named job. An empty name selects the
// only declared job, or an implicit job named "default" holding every op when
// no job is declared.
func (w *Workspace) Job(name string) (*compiler.Job, error) {
	spec, err := w.spec(name)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(spec.Ops))
	for _, op := range spec.Ops {
		selected[op] = true
	}
	asSource := make(map[string]bool, len(spec.SourceOps))
	for _, op := range spec.SourceOps {
		asSource[op] = true
	}
	for _, op := range append(slices.Clone(spec.Ops), spec.SourceOps...) {
		if !w.hasOp(op) {
			return nil, fmt.Errorf("job '%s' references undeclared op '%s'", spec.Name, op)
		}
	}

	job := &compiler.Job{
		Name:        spec.Name,
		Description: spec.Description,
		Tags:        spec.Tags,
		Executor:    spec.Executor,
		Sources:     w.Sources,
		Resources:   w.Resources,
		Partitions:  spec.Partitions,
	}
	for _, d := range w.Definitions {
		switch {
		case asSource[d.Name]:
			job.SourceDefinitions = append(job.SourceDefinitions, d)
		case len(selected) == 0 || selected[d.Name]:
			job.Definitions = append(job.Definitions, d)
		}
	}
	return job, nil
}

func (w *Workspace) spec(name string) (*JobSpec, error) {
	if name != "" {
		spec, ok := w.Jobs[name]
		if !ok {
			return nil, fmt.Errorf("job '%s' is not declared", name)
		}
		return spec, nil
	}
	switch len(w.Jobs) {
	case 0:
		return &JobSpec{Name: "default"}, nil
	case 1:
		for _, spec := range w.Jobs {
			return spec, nil
		}
	}
	return nil, fmt.Errorf("several jobs are declared (%v); select one by name", w.JobNames())
}

func (w *Workspace) hasOp(name string) bool {
	for _, d := range w.Definitions {
		if d.Name == name {
			return true
		}
	}
	return false
}
