package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Jobs       []*Job         `hcl:"job,block"`
	Resources  []*Resource    `hcl:"resource,block"`
	Partitions []*Partitions  `hcl:"partitions,block"`
	Sources    []*SourceAsset `hcl:"source_asset,block"`
	Ops        []*Op          `hcl:"op,block"`
	Remain     hcl.Body       `hcl:",remain"`
}

// Job represents a `job` block. It carries the job's metadata and, optionally,
// which ops take part in it.
type Job struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Tags        map[string]string `hcl:"tags,optional"`
	Executor    string            `hcl:"executor,optional"`
	Partitions  string            `hcl:"partitions,optional"`
	// Ops selects the ops compiled by the job. Empty selects every op not
	// listed in SourceOps.
	Ops []string `hcl:"ops,optional"`
	// SourceOps are ops materialized elsewhere; their outputs become
	// source assets.
	SourceOps []string  `hcl:"source_ops,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// Resource represents a `resource` block, either at the top level (a job
// binding) or inside an op or source_asset (a binding they supply).
type Resource struct {
	Key         string    `hcl:"key,label"`
	Type        string    `hcl:"type"`
	Description string    `hcl:"description,optional"`
	Config      cty.Value `hcl:"config,optional"`
	DeclRange   hcl.Range `hcl:",def_range"`
}

// Partitions represents a named `partitions` policy block.
type Partitions struct {
	Name      string    `hcl:"name,label"`
	Kind      string    `hcl:"kind"`
	Params    cty.Value `hcl:"params,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// SourceAsset represents a `source_asset` block.
type SourceAsset struct {
	Key       string      `hcl:"key,label"`
	Group     string      `hcl:"group,optional"`
	Requires  []string    `hcl:"requires,optional"`
	Resources []*Resource `hcl:"resource,block"`
	DeclRange hcl.Range   `hcl:",def_range"`
}

// Op represents an `op` block: one computation definition.
type Op struct {
	Name        string      `hcl:"name,label"`
	Description string      `hcl:"description,optional"`
	Subsettable bool        `hcl:"subsettable,optional"`
	Partitions  string      `hcl:"partitions,optional"`
	Requires    []string    `hcl:"requires,optional"`
	Inputs      []*Input    `hcl:"input,block"`
	Outputs     []*Output   `hcl:"output,block"`
	Resources   []*Resource `hcl:"resource,block"`
	DeclRange   hcl.Range   `hcl:",def_range"`
}

// Input represents an `input` block inside an op. Key defaults to the label.
type Input struct {
	Name string `hcl:"name,label"`
	Key  string `hcl:"key,optional"`
}

// Output represents an `output` block inside an op. Key defaults to the
// label. Deps, when present, lists the input keys the output is computed
// from.
type Output struct {
	Name  string         `hcl:"name,label"`
	Key   string         `hcl:"key,optional"`
	Group string         `hcl:"group,optional"`
	Deps  hcl.Expression `hcl:"deps,optional"`
}
