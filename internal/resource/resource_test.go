package resource

import (
	"context"
	"testing"

	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/specialistvlad/assetgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	warehouse := testutil.Resource("duckdb", map[string]string{"path": "w.db"})
	warehouseCopy := testutil.Resource("duckdb", map[string]string{"path": "w.db"})
	otherWarehouse := testutil.Resource("duckdb", map[string]string{"path": "other.db"})
	s3 := testutil.Resource("s3_io_manager", map[string]string{"bucket": "lake"})

	testCases := []struct {
		name    string
		defs    []*model.Definition
		sources []*model.SourceAsset
		job     map[string]model.Resource
		want    map[string]model.Resource
		wantErr string
	}{
		{
			name: "nothing bound yields the defaults",
			defs: []*model.Definition{testutil.Def("a", "a").Build()},
			want: map[string]model.Resource{IOManagerKey: DefaultIOManager},
		},
		{
			name: "same resource from two computations",
			defs: []*model.Definition{
				testutil.Def("a", "a").Bind("warehouse", warehouse).Build(),
				testutil.Def("b", "b").Bind("warehouse", warehouseCopy).Build(),
			},
			want: map[string]model.Resource{IOManagerKey: DefaultIOManager, "warehouse": warehouse},
		},
		{
			name: "different resources from two computations",
			defs: []*model.Definition{
				testutil.Def("a", "a").Bind("warehouse", warehouse).Build(),
				testutil.Def("b", "b").Bind("warehouse", otherWarehouse).Build(),
			},
			wantErr: "conflicting bindings for resource 'warehouse': 'a' and 'b'",
		},
		{
			name:    "source asset conflicts with computation",
			defs:    []*model.Definition{testutil.Def("a", "a").Bind("warehouse", warehouse).Build()},
			sources: []*model.SourceAsset{{Key: "raw/x", Resources: map[string]model.Resource{"warehouse": otherWarehouse}}},
			wantErr: "'a' and 'raw/x' supply different resources",
		},
		{
			name:    "job conflicts with computation",
			defs:    []*model.Definition{testutil.Def("a", "a").Bind("warehouse", warehouse).Build()},
			job:     map[string]model.Resource{"warehouse": otherWarehouse},
			wantErr: "resource 'warehouse' bound by the job conflicts with the binding supplied by 'a'",
		},
		{
			name: "job agrees with computation",
			defs: []*model.Definition{testutil.Def("a", "a").Bind("warehouse", warehouse).Build()},
			job:  map[string]model.Resource{"warehouse": warehouseCopy},
			want: map[string]model.Resource{IOManagerKey: DefaultIOManager, "warehouse": warehouse},
		},
		{
			name: "default key is exempt and the computation wins",
			defs: []*model.Definition{testutil.Def("a", "a").Bind(IOManagerKey, s3).Build()},
			job:  map[string]model.Resource{IOManagerKey: warehouse},
			want: map[string]model.Resource{IOManagerKey: s3},
		},
		{
			name: "requirement met by the job",
			defs: []*model.Definition{testutil.Def("a", "a").Require("warehouse").Build()},
			job:  map[string]model.Resource{"warehouse": warehouse},
			want: map[string]model.Resource{IOManagerKey: DefaultIOManager, "warehouse": warehouse},
		},
		{
			name: "requirement met by own binding",
			defs: []*model.Definition{testutil.Def("a", "a").Bind("warehouse", warehouse).Require("warehouse", IOManagerKey).Build()},
			want: map[string]model.Resource{IOManagerKey: DefaultIOManager, "warehouse": warehouse},
		},
		{
			name: "requirement met only by another computation",
			defs: []*model.Definition{
				testutil.Def("a", "a").Bind("warehouse", warehouse).Build(),
				testutil.Def("b", "b").Require("warehouse").Build(),
			},
			wantErr: "invalid definition (asset 'b' in 'b'): resource 'warehouse' is required but not provided",
		},
		{
			name:    "source requirement missing",
			sources: []*model.SourceAsset{{Key: "raw/x", Requires: []string{"lake"}}},
			wantErr: "resource 'lake' is required but not provided",
		},
		{
			name:    "job binds a resource to nothing",
			defs:    []*model.Definition{testutil.Def("a", "a").Bind("db", warehouse).Build()},
			job:     map[string]model.Resource{"db": nil},
			wantErr: "invalid definition: resource 'db' is bound to nothing",
		},
		{
			name:    "computation binds a resource to nothing",
			defs:    []*model.Definition{testutil.Def("a", "a").Bind("db", nil).Build()},
			wantErr: "invalid definition (asset 'a' in 'a'): resource 'db' is bound to nothing",
		},
		{
			name:    "source binds a typed nil resource",
			sources: []*model.SourceAsset{{Key: "raw/x", Resources: map[string]model.Resource{"db": (*model.ResourceDef)(nil)}}},
			wantErr: "resource 'db' is bound to nothing",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewChecker(Defaults()).Merge(context.Background(), tc.defs, tc.sources, tc.job)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidDefinition)
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMerge_NoDefaults(t *testing.T) {
	// Without a default table every job binding is checked.
	d := testutil.Def("a", "a").Bind(IOManagerKey, testutil.Resource("s3_io_manager", nil)).Build()
	job := map[string]model.Resource{IOManagerKey: DefaultIOManager}

	_, err := NewChecker(nil).Merge(context.Background(), []*model.Definition{d}, nil, job)
	assert.ErrorContains(t, err, "resource 'io_manager' bound by the job conflicts")
}
