// Package testutil holds fixtures shared by the package tests: a fluent
// builder for computation definitions, source asset and resource helpers, and
// a harness that writes HCL files into a temporary directory.
package testutil

import (
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// LocalName derives an input or output name from a key path.
func LocalName(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}

// DefBuilder assembles a *model.Definition for tests.
type DefBuilder struct {
	d *model.Definition
}

// Def starts a definition with the given base name and output keys. Output
// names are derived from the keys with LocalName.
func Def(name string, outputs ...string) *DefBuilder {
	d := &model.Definition{
		Name:      name,
		Outputs:   make(map[string]assetkey.Key, len(outputs)),
		Inputs:    make(map[string]assetkey.Key),
		Groups:    make(map[assetkey.Key]string),
		Resources: make(map[string]model.Resource),
	}
	for _, o := range outputs {
		d.Outputs[LocalName(o)] = assetkey.MustParse(o)
	}
	return &DefBuilder{d: d}
}

// In declares inputs named after their keys.
func (b *DefBuilder) In(keys ...string) *DefBuilder {
	for _, k := range keys {
		b.d.Inputs[LocalName(k)] = assetkey.MustParse(k)
	}
	return b
}

// InAs declares an input under an explicit name.
func (b *DefBuilder) InAs(name, key string) *DefBuilder {
	b.d.Inputs[name] = assetkey.MustParse(key)
	return b
}

// Group assigns every output declared so far to group.
func (b *DefBuilder) Group(group string) *DefBuilder {
	for _, k := range b.d.Outputs {
		b.d.Groups[k] = group
	}
	return b
}

// GroupOf assigns a single output to group.
func (b *DefBuilder) GroupOf(key, group string) *DefBuilder {
	b.d.Groups[assetkey.MustParse(key)] = group
	return b
}

// Dep declares the upstream keys of one output. Once any Dep is declared,
// outputs without one depend on nothing.
func (b *DefBuilder) Dep(output string, upstream ...string) *DefBuilder {
	if b.d.Deps == nil {
		b.d.Deps = make(map[assetkey.Key][]assetkey.Key)
	}
	ups := make([]assetkey.Key, 0, len(upstream))
	for _, u := range upstream {
		ups = append(ups, assetkey.MustParse(u))
	}
	out := assetkey.MustParse(output)
	b.d.Deps[out] = append(b.d.Deps[out], ups...)
	return b
}

// Subsettable marks the definition as splittable.
func (b *DefBuilder) Subsettable() *DefBuilder {
	b.d.CanSubset = true
	return b
}

// Partitioned sets the partition policy.
func (b *DefBuilder) Partitioned(p *model.PartitionPolicy) *DefBuilder {
	b.d.Partitions = p
	return b
}

// Bind adds a resource binding.
func (b *DefBuilder) Bind(key string, r model.Resource) *DefBuilder {
	b.d.Resources[key] = r
	return b
}

// Require adds resource requirements.
func (b *DefBuilder) Require(keys ...string) *DefBuilder {
	b.d.Requires = append(b.d.Requires, keys...)
	return b
}

// Build returns the assembled definition.
func (b *DefBuilder) Build() *model.Definition {
	return b.d
}

// Source returns a source asset in the given group.
func Source(key, group string) *model.SourceAsset {
	return &model.SourceAsset{Key: assetkey.MustParse(key), Group: group, Resources: map[string]model.Resource{}}
}

// Resource returns a resource definition whose config is an object of
// string attributes.
func Resource(typ string, config map[string]string) *model.ResourceDef {
	if len(config) == 0 {
		return &model.ResourceDef{Type: typ, Config: cty.EmptyObjectVal}
	}
	attrs := make(map[string]cty.Value, len(config))
	for k, v := range config {
		attrs[k] = cty.StringVal(v)
	}
	return &model.ResourceDef{Type: typ, Config: cty.ObjectVal(attrs)}
}

// Policy returns a partition policy with string parameters.
func Policy(kind string, params map[string]string) *model.PartitionPolicy {
	if len(params) == 0 {
		return &model.PartitionPolicy{Kind: kind, Params: cty.NullVal(cty.DynamicPseudoType)}
	}
	attrs := make(map[string]cty.Value, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		attrs[k] = cty.StringVal(params[k])
	}
	return &model.PartitionPolicy{Kind: kind, Params: cty.ObjectVal(attrs)}
}

// Keys parses a list of raw keys.
func Keys(raw ...string) []assetkey.Key {
	keys := make([]assetkey.Key, 0, len(raw))
	for _, r := range raw {
		keys = append(keys, assetkey.MustParse(r))
	}
	return keys
}
