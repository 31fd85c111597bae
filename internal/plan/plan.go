// Package plan translates a compiled job into an executable plan document and
// renders it as JSON or YAML.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/assetgraph/internal/builder"
	"github.com/specialistvlad/assetgraph/internal/compiler"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/dag"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const (
	// APIVersion is written into every plan.
	APIVersion = "assetgraph/v1"
	// Kind is written into every plan.
	Kind = "AssetJob"

	ExecutorInProcess    = "in_process"
	ExecutorMultiprocess = "multiprocess"
)

// Translator builds a *Plan from a compiled job. It implements
// compiler.Translator[*Plan].
type Translator struct {
	// Executors lists the accepted executor names.
	Executors []string
	// DefaultExecutor is used when the job names none.
	DefaultExecutor string
}

// NewTranslator returns a translator accepting the built-in executors.
func NewTranslator() *Translator {
	return &Translator{
		Executors:       []string{ExecutorInProcess, ExecutorMultiprocess},
		DefaultExecutor: ExecutorMultiprocess,
	}
}

var _ compiler.Translator[*Plan] = (*Translator)(nil)

// Translate implements compiler.Translator.
func (t *Translator) Translate(ctx context.Context, c *compiler.Compiled) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	executor := c.Executor
	if executor == "" {
		executor = t.DefaultExecutor
	}
	if !slices.Contains(t.Executors, executor) {
		return nil, fmt.Errorf("unknown executor '%s', expected one of: %s", executor, strings.Join(t.Executors, ", "))
	}

	order, err := unitOrder(c)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata: Metadata{
			Name:        c.Name,
			Description: c.Description,
			Tags:        c.Tags,
		},
		Executor:  executor,
		Resources: resources(c.Resources),
		Units:     make([]Unit, 0, len(order)),
	}
	if c.Partitions != nil {
		p.Partitions = &Partition{
			Name:   c.Partitions.Name,
			Kind:   c.Partitions.Kind,
			Params: plainValue(c.Partitions.Params),
		}
	}

	for _, id := range order {
		p.Units = append(p.Units, unit(c, id))
	}

	logger.Debug("Translate: Plan built.", "units", len(p.Units), "executor", executor)
	return p, nil
}

// unitOrder re-checks acyclicity and returns the units in topological order.
func unitOrder(c *compiler.Compiled) ([]string, error) {
	g := dag.New()
	for id := range c.Graph.Units {
		g.AddNode(id)
	}
	for _, e := range c.Graph.Edges() {
		if e.From.Unit == e.Unit {
			return nil, &model.DefinitionError{Reason: fmt.Sprintf("unit '%s' depends on its own output '%s'", e.Unit, e.From.Output)}
		}
		if err := g.AddEdge(e.From.Unit, e.Unit); err != nil {
			return nil, model.Invariantf("edge from '%s' to '%s': %v", e.From.Unit, e.Unit, err)
		}
	}

	order, err := g.TopologicalOrder()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		return nil, &model.DefinitionError{Reason: "units form a dependency cycle: " + strings.Join(cycleErr.Path, " -> ")}
	}
	return order, err
}

func unit(c *compiler.Compiled, id string) Unit {
	d := c.Graph.Units[id]
	u := Unit{
		ID:          id,
		Computation: d.Name,
		Requires:    slices.Sorted(slices.Values(d.Requires)),
		DependsOn:   c.Graph.Upstream(id),
	}
	for _, k := range d.Keys() {
		u.Assets = append(u.Assets, k.String())
	}

	key, _ := c.Graph.NodeKey(id)
	if key.IsInvocation() {
		u.Alias = key.Alias
	}
	deps := c.Graph.Deps[key]
	for _, name := range d.InputNames() {
		in := Input{Name: name}
		if k, ok := c.Graph.InputKeys[builder.InputHandle{Unit: id, Input: name}]; ok {
			in.Asset = k.String()
		}
		if dep, ok := deps[name]; ok {
			in.FromUnit, in.FromOutput = dep.Unit, dep.Output
		}
		u.Inputs = append(u.Inputs, in)
	}
	return u
}

func resources(table map[string]model.Resource) []Resource {
	out := make([]Resource, 0, len(table))
	for _, key := range slices.Sorted(maps.Keys(table)) {
		r := table[key]
		typ := fmt.Sprintf("%T", r)
		if def, ok := r.(*model.ResourceDef); ok {
			typ = def.Type
		}
		out = append(out, Resource{Key: key, Type: typ, Fingerprint: r.Fingerprint()})
	}
	return out
}

// plainValue converts a cty value into plain Go values suitable for JSON and
// YAML encoding.
func plainValue(v cty.Value) any {
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil
	}
	data, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}
