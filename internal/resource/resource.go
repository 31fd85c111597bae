// Package resource merges the resource bindings contributed by computations,
// source assets and the job, and checks that every requirement is met.
package resource

import (
	"context"
	"maps"
	"slices"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// IOManagerKey is the key of the default output-persistence resource.
const IOManagerKey = "io_manager"

// DefaultIOManager is the resource bound to IOManagerKey unless the job or a
// computation binds something else.
var DefaultIOManager = &model.ResourceDef{
	Type:        "fs_io_manager",
	Description: "Persists outputs to the local filesystem.",
	Config:      cty.EmptyObjectVal,
}

// Defaults returns the default resource table.
func Defaults() map[string]model.Resource {
	return map[string]model.Resource{IOManagerKey: DefaultIOManager}
}

// Checker merges resource bindings. Keys present in Defaults may be bound by
// the job to a different resource than a computation binds; the
// computation's binding wins.
type Checker struct {
	Defaults map[string]model.Resource
}

// NewChecker returns a Checker using the given default table.
func NewChecker(defaults map[string]model.Resource) *Checker {
	return &Checker{Defaults: defaults}
}

// binding remembers who contributed a resource to the merged table.
type binding struct {
	res   model.Resource
	key   assetkey.Key
	owner string
}

// Merge returns the single resource table handed to the executor. Two
// contributors binding one key to resources with different fingerprints, or
// a requirement nobody satisfies, is a DefinitionError.
func (c *Checker) Merge(ctx context.Context, defs []*model.Definition, sources []*model.SourceAsset, job map[string]model.Resource) (map[string]model.Resource, error) {
	logger := ctxlog.FromContext(ctx)

	contributed := make(map[string]binding)
	add := func(key assetkey.Key, owner string, resources map[string]model.Resource) error {
		for _, name := range slices.Sorted(maps.Keys(resources)) {
			res := resources[name]
			if unbound(res) {
				return model.Definitionf(key, owner, "resource '%s' is bound to nothing", name)
			}
			prev, ok := contributed[name]
			if ok && prev.res.Fingerprint() != res.Fingerprint() {
				return model.Definitionf(key, owner,
					"conflicting bindings for resource '%s': '%s' and '%s' supply different resources", name, prev.owner, owner)
			}
			if !ok {
				contributed[name] = binding{res: res, key: key, owner: owner}
			}
		}
		return nil
	}

	for _, d := range defs {
		if err := add(d.FirstKey(), d.Name, d.Resources); err != nil {
			return nil, err
		}
	}
	for _, s := range sources {
		if err := add(s.Key, s.Key.String(), s.Resources); err != nil {
			return nil, err
		}
	}
	logger.Debug("Merge: Contributed bindings collected.", "count", len(contributed))

	for _, name := range slices.Sorted(maps.Keys(job)) {
		if unbound(job[name]) {
			return nil, model.Definitionf("", "", "resource '%s' is bound to nothing", name)
		}
		if _, exempt := c.Defaults[name]; exempt {
			continue
		}
		prev, ok := contributed[name]
		if ok && prev.res.Fingerprint() != job[name].Fingerprint() {
			return nil, model.Definitionf(prev.key, prev.owner,
				"resource '%s' bound by the job conflicts with the binding supplied by '%s'", name, prev.owner)
		}
	}

	// Requirements are checked against the job table, which includes the
	// defaults, plus the requiring entity's own bindings.
	jobTable := make(map[string]model.Resource, len(c.Defaults)+len(job))
	maps.Copy(jobTable, c.Defaults)
	maps.Copy(jobTable, job)

	for _, d := range defs {
		if err := checkRequirements(d.FirstKey(), d.Name, d.Requires, jobTable, d.Resources); err != nil {
			return nil, err
		}
	}
	for _, s := range sources {
		if err := checkRequirements(s.Key, s.Key.String(), s.Requires, jobTable, s.Resources); err != nil {
			return nil, err
		}
	}

	merged := maps.Clone(jobTable)
	for name, b := range contributed {
		merged[name] = b.res
	}

	logger.Debug("Merge: Resource table complete.", "resources", slices.Sorted(maps.Keys(merged)))
	return merged, nil
}

func checkRequirements(key assetkey.Key, owner string, required []string, job, own map[string]model.Resource) error {
	for _, name := range required {
		if _, ok := own[name]; ok {
			continue
		}
		if _, ok := job[name]; ok {
			continue
		}
		return model.Definitionf(key, owner, "resource '%s' is required but not provided", name)
	}
	return nil
}

// unbound reports whether r is a nil binding, including a typed nil.
func unbound(r model.Resource) bool {
	if r == nil {
		return true
	}
	d, ok := r.(*model.ResourceDef)
	return ok && d == nil
}
