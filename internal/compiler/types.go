package compiler

import (
	"context"

	"github.com/specialistvlad/assetgraph/internal/builder"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/specialistvlad/assetgraph/internal/resolver"
)

// Job is the input of one compile call.
type Job struct {
	Name        string
	Description string
	Tags        map[string]string
	// Executor names the executor the translator should select.
	Executor string

	Definitions []*model.Definition
	Sources     []*model.SourceAsset
	// SourceDefinitions are computations materialized elsewhere. Their
	// outputs are treated as source assets.
	SourceDefinitions []*model.Definition

	// Resources are the job-level bindings.
	Resources map[string]model.Resource
	// Partitions, when set, overrides the policy unified from definitions.
	Partitions *model.PartitionPolicy
}

// Compiled is the output of a successful compile call.
type Compiled struct {
	Name        string
	Description string
	Tags        map[string]string
	Executor    string

	// Graph is the final, acyclic unit graph.
	Graph *builder.Graph
	// Definitions is the final definition set, after any splitting.
	Definitions []*model.Definition
	Sources     []*model.SourceAsset
	Resolved    resolver.Resolved
	// Split lists the original definitions that cycle resolution replaced.
	Split []*model.Definition

	Resources  map[string]model.Resource
	Partitions *model.PartitionPolicy
}

// Translator turns a compiled graph into an executable job of type J.
type Translator[J any] interface {
	Translate(ctx context.Context, c *Compiled) (J, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc[J any] func(ctx context.Context, c *Compiled) (J, error)

// Translate calls f.
func (f TranslatorFunc[J]) Translate(ctx context.Context, c *Compiled) (J, error) {
	return f(ctx, c)
}
