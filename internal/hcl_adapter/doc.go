// Package hcl_adapter loads asset job definitions from HCL files: ops, their
// inputs and outputs, source assets, resources, partition policies and jobs.
// Every block from every discovered file is merged into one Workspace, from
// which compiler jobs are built.
package hcl_adapter
