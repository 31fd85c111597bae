package model

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
)

// DefaultGroup is the group of any artifact declared without one.
const DefaultGroup = "default"

// Definition is an authored computation that produces one or more artifacts
// from its declared inputs.
type Definition struct {
	// Name is the base name of the computation. Several definitions may share
	// it; the compiler assigns collision-free unit identifiers.
	Name        string
	Description string

	// Outputs maps each output name to the artifact key it produces.
	Outputs map[string]assetkey.Key
	// Inputs maps each local input name to the declared upstream key. A
	// single-segment key may be resolved by group and short name.
	Inputs map[string]assetkey.Key
	// Groups assigns a group to each output key. Missing entries belong to
	// DefaultGroup.
	Groups map[assetkey.Key]string
	// Deps lists, per output key, the declared input keys that output is
	// computed from. A nil map means every output depends on every input.
	Deps map[assetkey.Key][]assetkey.Key

	// Resources are the bindings this computation supplies.
	Resources map[string]Resource
	// Requires lists the resource keys this computation needs at run time.
	Requires []string

	Partitions *PartitionPolicy
	// CanSubset reports whether the computation can be split into smaller
	// computations restricted to a subset of its outputs.
	CanSubset bool
}

// Keys returns the output keys in sorted order.
func (d *Definition) Keys() []assetkey.Key {
	keys := make([]assetkey.Key, 0, len(d.Outputs))
	for _, k := range d.Outputs {
		keys = append(keys, k)
	}
	assetkey.Sort(keys)
	return keys
}

// FirstKey returns the smallest output key. It is used to name the
// definition in error messages.
func (d *Definition) FirstKey() assetkey.Key {
	keys := d.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Label names the definition in messages: its first key, or its base name
// for a computation that produces nothing.
func (d *Definition) Label() string {
	if k := d.FirstKey(); !k.IsZero() {
		return k.String()
	}
	return d.Name
}

// Produces reports whether key is one of the definition's outputs.
func (d *Definition) Produces(key assetkey.Key) bool {
	_, ok := d.OutputName(key)
	return ok
}

// OutputName returns the output name under which key is produced.
func (d *Definition) OutputName(key assetkey.Key) (string, bool) {
	for name, k := range d.Outputs {
		if k == key {
			return name, true
		}
	}
	return "", false
}

// GroupOf returns the group of one of the definition's output keys.
func (d *Definition) GroupOf(key assetkey.Key) string {
	if g, ok := d.Groups[key]; ok && g != "" {
		return g
	}
	return DefaultGroup
}

// DistinctGroups returns the sorted set of groups across all outputs.
func (d *Definition) DistinctGroups() []string {
	seen := make(map[string]struct{})
	for _, k := range d.Outputs {
		seen[d.GroupOf(k)] = struct{}{}
	}
	groups := slices.Collect(maps.Keys(seen))
	sort.Strings(groups)
	return groups
}

// InputNames returns the input names in sorted order.
func (d *Definition) InputNames() []string {
	names := slices.Collect(maps.Keys(d.Inputs))
	sort.Strings(names)
	return names
}

// UpstreamOf returns the declared input keys that the given output is
// computed from, in sorted order.
func (d *Definition) UpstreamOf(key assetkey.Key) []assetkey.Key {
	if d.Deps != nil {
		return assetkey.Sorted(d.Deps[key])
	}
	ups := make([]assetkey.Key, 0, len(d.Inputs))
	for _, k := range d.Inputs {
		ups = append(ups, k)
	}
	assetkey.Sort(ups)
	return slices.Compact(ups)
}

// Validate checks the internal consistency of a single definition.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return Definitionf(d.FirstKey(), "", "computation must have a name")
	}
	seen := make(map[assetkey.Key]string, len(d.Outputs))
	for _, name := range slices.Sorted(maps.Keys(d.Outputs)) {
		key := d.Outputs[name]
		if key.IsZero() {
			return Definitionf("", d.Name, "output '%s' has an empty asset key", name)
		}
		if other, dup := seen[key]; dup {
			return Definitionf(key, d.Name, "outputs '%s' and '%s' produce the same asset", other, name)
		}
		seen[key] = name
	}

	declared := make(map[assetkey.Key]struct{}, len(d.Inputs))
	for _, k := range d.Inputs {
		declared[k] = struct{}{}
	}
	for out, ups := range d.Deps {
		if !d.Produces(out) {
			return Definitionf(out, d.Name, "dependencies declared for an asset the computation does not produce")
		}
		for _, up := range ups {
			if _, ok := declared[up]; !ok {
				return Definitionf(out, d.Name, "depends on '%s', which is not a declared input", up)
			}
		}
	}
	return nil
}

// Subset returns a new definition restricted to the given output keys. Only
// the inputs that the kept outputs depend on are retained. The receiver is
// not modified.
func (d *Definition) Subset(keys []assetkey.Key) (*Definition, error) {
	if !d.CanSubset {
		return nil, fmt.Errorf("computation '%s' cannot be subset", d.Name)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("cannot subset computation '%s' to an empty set of assets", d.Name)
	}

	keep := make(map[assetkey.Key]struct{}, len(keys))
	for _, k := range keys {
		if !d.Produces(k) {
			return nil, fmt.Errorf("cannot subset computation '%s' to asset '%s' it does not produce", d.Name, k)
		}
		keep[k] = struct{}{}
	}

	sub := &Definition{
		Name:        d.Name,
		Description: d.Description,
		Outputs:     make(map[string]assetkey.Key, len(keep)),
		Inputs:      make(map[string]assetkey.Key),
		Groups:      make(map[assetkey.Key]string, len(keep)),
		Resources:   maps.Clone(d.Resources),
		Requires:    slices.Clone(d.Requires),
		Partitions:  d.Partitions,
		CanSubset:   d.CanSubset,
	}

	needed := make(map[assetkey.Key]struct{})
	for name, k := range d.Outputs {
		if _, ok := keep[k]; !ok {
			continue
		}
		sub.Outputs[name] = k
		if g, ok := d.Groups[k]; ok {
			sub.Groups[k] = g
		}
		for _, up := range d.UpstreamOf(k) {
			needed[up] = struct{}{}
		}
	}

	if d.Deps != nil {
		sub.Deps = make(map[assetkey.Key][]assetkey.Key, len(keep))
		for k := range keep {
			if ups, ok := d.Deps[k]; ok {
				sub.Deps[k] = slices.Clone(ups)
			}
		}
	}

	for name, k := range d.Inputs {
		if _, ok := needed[k]; ok {
			sub.Inputs[name] = k
		}
	}

	return sub, nil
}

// ToSourceAssets describes each output of the definition as a source asset,
// for use when the definition is materialized by some other job.
func (d *Definition) ToSourceAssets() []*SourceAsset {
	keys := d.Keys()
	sources := make([]*SourceAsset, 0, len(keys))
	for _, k := range keys {
		sources = append(sources, &SourceAsset{
			Key:       k,
			Group:     d.GroupOf(k),
			Resources: maps.Clone(d.Resources),
			Requires:  slices.Clone(d.Requires),
		})
	}
	return sources
}
