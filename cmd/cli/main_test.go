package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/assetgraph/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_Compiles(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "main.hcl")
	hcl := `
op "extract" {
  output "raw" { key = "raw/users" }
}

op "load" {
  input "users" { key = "raw/users" }
  output "users" { key = "warehouse/users" }
}
`
	require.NoError(t, os.WriteFile(filePath, []byte(hcl), 0600))

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"--format", "yaml", filePath})

	require.NoError(t, err)
	require.Contains(t, out.String(), "kind: AssetJob")
	require.Contains(t, out.String(), "warehouse/users")
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	invalidHCL := `
		op "extract" {
			output "raw" {
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load definitions")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
