// Package partition checks that every partitioned computation in a job
// declares the same partition policy.
package partition

import (
	"context"

	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/model"
)

// Unify returns the single partition policy shared by all partitioned
// definitions, or nil when none is partitioned. Two definitions with
// different policies produce a DefinitionError naming a key of each.
func Unify(ctx context.Context, defs []*model.Definition) (*model.PartitionPolicy, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		policy *model.PartitionPolicy
		owner  *model.Definition
	)
	for _, d := range defs {
		if d.Partitions == nil {
			continue
		}
		if policy == nil {
			policy, owner = d.Partitions, d
			continue
		}
		if !policy.Equal(d.Partitions) {
			return nil, model.Definitionf(d.FirstKey(), d.Name,
				"asset '%s' is partitioned by %s but asset '%s' is partitioned by %s; all partitioned assets in a job must share one partition policy",
				owner.FirstKey(), policy, d.FirstKey(), d.Partitions)
		}
	}

	logger.Debug("Unify: Partition policy resolved.", "policy", policy.String())
	return policy, nil
}
