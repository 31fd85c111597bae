// Package resolver matches every declared input of every computation to the
// artifact key that feeds it.
package resolver

import (
	"context"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/model"
)

// Inputs maps a computation's local input names to resolved artifact keys.
type Inputs map[string]assetkey.Key

// Resolved holds the resolved inputs of every computation.
type Resolved map[*model.Definition]Inputs

// groupName is the (group, short name) pair used for fallback matching.
type groupName struct {
	group string
	name  string
}

// table indexes every key produced within the job or supplied as a source.
type table struct {
	produced map[assetkey.Key]struct{}
	byGroup  map[groupName]assetkey.Key
}

func newTable(defs []*model.Definition, sources []*model.SourceAsset) *table {
	t := &table{
		produced: make(map[assetkey.Key]struct{}),
		byGroup:  make(map[groupName]assetkey.Key),
	}
	// Later entries overwrite earlier ones on a (group, name) collision.
	for _, d := range defs {
		for _, k := range d.Keys() {
			t.produced[k] = struct{}{}
			t.byGroup[groupName{d.GroupOf(k), k.Last()}] = k
		}
	}
	for _, s := range sources {
		t.produced[s.Key] = struct{}{}
		t.byGroup[groupName{s.GroupName(), s.Key.Last()}] = s.Key
	}
	return t
}

func (t *table) lookup(d *model.Definition, declared assetkey.Key) (assetkey.Key, bool) {
	if _, ok := t.produced[declared]; ok {
		return declared, true
	}
	groups := d.DistinctGroups()
	if len(groups) != 1 {
		return "", false
	}
	k, ok := t.byGroup[groupName{groups[0], declared.Last()}]
	return k, ok
}

// Resolve computes the input-to-key mapping for every definition. An input
// resolves to its declared key when that key is produced in the job or is a
// source. Otherwise, when all of the computation's outputs share one group,
// the input resolves to the key with the same short name in that group.
// Anything else is a DefinitionError naming the input.
func Resolve(ctx context.Context, defs []*model.Definition, sources []*model.SourceAsset) (Resolved, error) {
	logger := ctxlog.FromContext(ctx)
	t := newTable(defs, sources)
	logger.Debug("Resolve: Lookup table built.", "produced", len(t.produced), "grouped", len(t.byGroup))

	resolved := make(Resolved, len(defs))
	for _, d := range defs {
		inputs := make(Inputs, len(d.Inputs))
		for _, name := range d.InputNames() {
			declared := d.Inputs[name]
			k, ok := t.lookup(d, declared)
			if !ok {
				return nil, model.Definitionf(declared, d.Name,
					"input asset '%s' for asset '%s' is not produced by any of the provided computations and is not one of the provided sources",
					declared, d.Label())
			}
			if k != declared {
				logger.Debug("Resolve: Input matched by group.", "computation", d.Name, "input", name, "declared", declared, "key", k)
			}
			inputs[name] = k
		}
		resolved[d] = inputs
	}

	logger.Debug("Resolve: All inputs resolved.", "computations", len(resolved))
	return resolved, nil
}
