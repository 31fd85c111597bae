package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/fsutil"
)

// Loader reads HCL definition files.
type Loader struct{}

// NewLoader creates a new HCL definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and merges all blocks
// into a Workspace. Files are read in lexical path order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	var merged fileRoot

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		merged.Jobs = append(merged.Jobs, root.Jobs...)
		merged.Resources = append(merged.Resources, root.Resources...)
		merged.Partitions = append(merged.Partitions, root.Partitions...)
		merged.Sources = append(merged.Sources, root.Sources...)
		merged.Ops = append(merged.Ops, root.Ops...)
	}

	ws, err := l.translate(ctx, &merged)
	if err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "ops", len(ws.Definitions), "sources", len(ws.Sources), "resources", len(ws.Resources), "jobs", len(ws.Jobs))
	return ws, nil
}
