package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/specialistvlad/assetgraph/internal/plan"
	"github.com/specialistvlad/assetgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const pipelineHCL = `
source_asset "raw/events" {}

op "clean" {
  input "events" { key = "raw/events" }
  output "clean" { key = "events/clean" }
}

op "report" {
  input "clean" { key = "events/clean" }
  output "report" { key = "events/report" }
}
`

const cyclicHCL = `
op "a" {
  input "b" {}
  output "a" {}
}

op "b" {
  input "a" {}
  output "b" {}
}
`

// setupAppTest creates an app over the given files, capturing its output.
func setupAppTest(t *testing.T, files map[string]string, mutate func(*Config)) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	cfg := Config{DefsPaths: []string{dir}, LogLevel: "debug", LogFormat: "text"}
	if mutate != nil {
		mutate(&cfg)
	}
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("ASSETGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return NewApp(out, logs, config, nil), out, logs
}

func TestRun_WritesJSONPlan(t *testing.T) {
	a, out, logs := setupAppTest(t, map[string]string{"main.hcl": pipelineHCL}, nil)

	require.NoError(t, a.Run(context.Background()))

	var p plan.Plan
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	assert.Equal(t, plan.APIVersion, p.APIVersion)
	assert.Equal(t, "default", p.Metadata.Name)
	assert.Equal(t, plan.ExecutorMultiprocess, p.Executor)
	require.Len(t, p.Units, 2)
	assert.Equal(t, "clean", p.Units[0].ID)
	assert.Equal(t, "report", p.Units[1].ID)
	assert.Contains(t, logs.String(), "Job compiled.")
}

func TestRun_WritesYAMLFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "plan.yaml")
	a, out, _ := setupAppTest(t, map[string]string{"main.hcl": pipelineHCL}, func(c *Config) {
		c.Output = target
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var p plan.Plan
	require.NoError(t, yaml.Unmarshal(data, &p))
	assert.Equal(t, plan.Kind, p.Kind)
	assert.Len(t, p.Units, 2)
}

func TestRun_ListJobs(t *testing.T) {
	files := map[string]string{
		"main.hcl": pipelineHCL,
		"jobs.hcl": `
job "nightly" { ops = ["clean", "report"] }
job "cleanup" { ops = ["clean"] }
`,
	}
	a, out, _ := setupAppTest(t, files, func(c *Config) { c.ListJobs = true })

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "cleanup\nnightly\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	t.Run("dependency cycle", func(t *testing.T) {
		a, out, _ := setupAppTest(t, map[string]string{"main.hcl": cyclicHCL}, nil)

		err := a.Run(context.Background())
		require.ErrorIs(t, err, model.ErrInvalidDefinition)
		assert.Contains(t, err.Error(), "dependency cycle")
		assert.Empty(t, out.String())
	})

	t.Run("unknown job", func(t *testing.T) {
		a, _, _ := setupAppTest(t, map[string]string{"main.hcl": pipelineHCL}, func(c *Config) { c.Job = "hourly" })

		err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "job 'hourly' is not declared")
	})

	t.Run("invalid hcl", func(t *testing.T) {
		a, _, _ := setupAppTest(t, map[string]string{"main.hcl": `op "a" {`}, nil)

		err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load definitions")
	})
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name       string
		cfg        Config
		wantFormat string
		wantErr    string
	}{
		{name: "missing paths", cfg: Config{}, wantErr: "DefsPaths is a required"},
		{name: "default format", cfg: Config{DefsPaths: []string{"."}}, wantFormat: "json"},
		{name: "format from output", cfg: Config{DefsPaths: []string{"."}, Output: "plan.yml"}, wantFormat: "yaml"},
		{name: "explicit format wins", cfg: Config{DefsPaths: []string{"."}, Output: "plan.yml", Format: "json"}, wantFormat: "json"},
		{name: "bad format", cfg: Config{DefsPaths: []string{"."}, Format: "toml"}, wantErr: "invalid format 'toml'"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFormat, got.Format)
		})
	}
}
