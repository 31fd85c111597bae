package plan

// Plan is the executable job produced from a compiled graph. It is the
// document written by the command line front end.
type Plan struct {
	APIVersion string     `json:"apiVersion" yaml:"apiVersion"`
	Kind       string     `json:"kind" yaml:"kind"`
	Metadata   Metadata   `json:"metadata" yaml:"metadata"`
	Executor   string     `json:"executor" yaml:"executor"`
	Partitions *Partition `json:"partitions,omitempty" yaml:"partitions,omitempty"`
	Resources  []Resource `json:"resources" yaml:"resources"`
	// Units are listed in topological order.
	Units []Unit `json:"units" yaml:"units"`
}

// Metadata carries the job's descriptive fields.
type Metadata struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Partition describes the job's partition policy.
type Partition struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind   string `json:"kind" yaml:"kind"`
	Params any    `json:"params,omitempty" yaml:"params,omitempty"`
}

// Resource is one entry of the merged resource table.
type Resource struct {
	Key         string `json:"key" yaml:"key"`
	Type        string `json:"type" yaml:"type"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Unit is one execution unit.
type Unit struct {
	ID          string `json:"id" yaml:"id"`
	Computation string `json:"computation" yaml:"computation"`
	// Alias is set when the computation runs under a generated name.
	Alias     string   `json:"alias,omitempty" yaml:"alias,omitempty"`
	Assets    []string `json:"assets" yaml:"assets"`
	Inputs    []Input  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Requires  []string `json:"requires,omitempty" yaml:"requires,omitempty"`
}

// Input binds one input of a unit to an artifact and, when the artifact is
// produced in the job, to the producing unit output.
type Input struct {
	Name       string `json:"name" yaml:"name"`
	Asset      string `json:"asset" yaml:"asset"`
	FromUnit   string `json:"fromUnit,omitempty" yaml:"fromUnit,omitempty"`
	FromOutput string `json:"fromOutput,omitempty" yaml:"fromOutput,omitempty"`
}
