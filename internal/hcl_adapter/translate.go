// This file contains the logic for translating the decoded HCL blocks into
// the compiler's model.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/zclconf/go-cty/cty"
)

func (l *Loader) translate(ctx context.Context, root *fileRoot) (*Workspace, error) {
	ws := &Workspace{
		Resources:  make(map[string]model.Resource),
		Partitions: make(map[string]*model.PartitionPolicy),
		Jobs:       make(map[string]*JobSpec),
	}

	for _, p := range root.Partitions {
		if _, dup := ws.Partitions[p.Name]; dup {
			return nil, fmt.Errorf("%s: partitions '%s' is declared more than once", p.DeclRange, p.Name)
		}
		params := p.Params
		if params.IsNull() {
			params = cty.NullVal(cty.DynamicPseudoType)
		}
		ws.Partitions[p.Name] = &model.PartitionPolicy{Name: p.Name, Kind: p.Kind, Params: params}
	}

	bindings, err := translateResources(root.Resources)
	if err != nil {
		return nil, err
	}
	ws.Resources = bindings

	for _, s := range root.Sources {
		src, err := l.translateSource(s)
		if err != nil {
			return nil, err
		}
		ws.Sources = append(ws.Sources, src)
	}

	for _, op := range root.Ops {
		d, err := l.translateOp(ctx, op, ws.Partitions)
		if err != nil {
			return nil, err
		}
		ws.Definitions = append(ws.Definitions, d)
	}

	for _, j := range root.Jobs {
		if _, dup := ws.Jobs[j.Name]; dup {
			return nil, fmt.Errorf("%s: job '%s' is declared more than once", j.DeclRange, j.Name)
		}
		spec := &JobSpec{
			Name:        j.Name,
			Description: j.Description,
			Tags:        j.Tags,
			Executor:    j.Executor,
			Ops:         j.Ops,
			SourceOps:   j.SourceOps,
		}
		if j.Partitions != "" {
			policy, ok := ws.Partitions[j.Partitions]
			if !ok {
				return nil, fmt.Errorf("%s: job '%s' references undeclared partitions '%s'", j.DeclRange, j.Name, j.Partitions)
			}
			spec.Partitions = policy
		}
		ws.Jobs[j.Name] = spec
	}

	return ws, nil
}

// translateOp converts an op block into a computation definition.
func (l *Loader) translateOp(ctx context.Context, op *Op, policies map[string]*model.PartitionPolicy) (*model.Definition, error) {
	logger := ctxlog.FromContext(ctx).With("op", op.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL op to computation definition.")

	d := &model.Definition{
		Name:        op.Name,
		Description: op.Description,
		Outputs:     make(map[string]assetkey.Key, len(op.Outputs)),
		Inputs:      make(map[string]assetkey.Key, len(op.Inputs)),
		Groups:      make(map[assetkey.Key]string, len(op.Outputs)),
		Requires:    op.Requires,
		CanSubset:   op.Subsettable,
	}

	for _, in := range op.Inputs {
		if _, dup := d.Inputs[in.Name]; dup {
			return nil, fmt.Errorf("%s: op '%s' declares input '%s' more than once", op.DeclRange, op.Name, in.Name)
		}
		k, err := parseKey(in.Key, in.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: op '%s' input '%s': %w", op.DeclRange, op.Name, in.Name, err)
		}
		d.Inputs[in.Name] = k
	}

	for _, out := range op.Outputs {
		if _, dup := d.Outputs[out.Name]; dup {
			return nil, fmt.Errorf("%s: op '%s' declares output '%s' more than once", op.DeclRange, op.Name, out.Name)
		}
		k, err := parseKey(out.Key, out.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: op '%s' output '%s': %w", op.DeclRange, op.Name, out.Name, err)
		}
		d.Outputs[out.Name] = k
		if out.Group != "" {
			d.Groups[k] = out.Group
		}

		if !isExprDefined(ctx, out.Deps, "deps") {
			continue
		}
		var raw []string
		if diags := gohcl.DecodeExpression(out.Deps, nil, &raw); diags.HasErrors() {
			return nil, fmt.Errorf("op '%s' output '%s': invalid deps: %w", op.Name, out.Name, diags)
		}
		if d.Deps == nil {
			d.Deps = make(map[assetkey.Key][]assetkey.Key)
		}
		ups := make([]assetkey.Key, 0, len(raw))
		for _, r := range raw {
			up, err := assetkey.Parse(r)
			if err != nil {
				return nil, fmt.Errorf("%s: op '%s' output '%s' deps: %w", op.DeclRange, op.Name, out.Name, err)
			}
			ups = append(ups, up)
		}
		d.Deps[k] = ups
	}

	// Outputs without deps still depend on every input once any output
	// narrows its own.
	if d.Deps != nil {
		for _, k := range d.Outputs {
			if _, ok := d.Deps[k]; !ok {
				d.Deps[k] = inputKeys(d)
			}
		}
	}

	resources, err := translateResources(op.Resources)
	if err != nil {
		return nil, fmt.Errorf("op '%s': %w", op.Name, err)
	}
	d.Resources = resources

	if op.Partitions != "" {
		policy, ok := policies[op.Partitions]
		if !ok {
			return nil, fmt.Errorf("%s: op '%s' references undeclared partitions '%s'", op.DeclRange, op.Name, op.Partitions)
		}
		d.Partitions = policy
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op.DeclRange, err)
	}
	return d, nil
}

func (l *Loader) translateSource(s *SourceAsset) (*model.SourceAsset, error) {
	k, err := assetkey.Parse(s.Key)
	if err != nil {
		return nil, fmt.Errorf("%s: source_asset '%s': %w", s.DeclRange, s.Key, err)
	}
	resources, err := translateResources(s.Resources)
	if err != nil {
		return nil, fmt.Errorf("source_asset '%s': %w", s.Key, err)
	}
	return &model.SourceAsset{Key: k, Group: s.Group, Requires: s.Requires, Resources: resources}, nil
}

func translateResources(blocks []*Resource) (map[string]model.Resource, error) {
	out := make(map[string]model.Resource, len(blocks))
	for _, r := range blocks {
		if _, dup := out[r.Key]; dup {
			return nil, fmt.Errorf("%s: resource '%s' is declared more than once", r.DeclRange, r.Key)
		}
		config := r.Config
		if config.IsNull() {
			config = cty.EmptyObjectVal
		}
		out[r.Key] = &model.ResourceDef{Type: r.Type, Description: r.Description, Config: config}
	}
	return out, nil
}

// parseKey parses an explicit key, falling back to the block label.
func parseKey(raw, label string) (assetkey.Key, error) {
	if raw == "" {
		raw = label
	}
	return assetkey.Parse(raw)
}

func inputKeys(d *model.Definition) []assetkey.Key {
	keys := make([]assetkey.Key, 0, len(d.Inputs))
	for _, k := range d.Inputs {
		keys = append(keys, k)
	}
	return assetkey.Sorted(keys)
}
