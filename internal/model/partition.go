package model

import (
	"github.com/zclconf/go-cty/cty"
)

// PartitionPolicy describes how a computation's outputs are partitioned. The
// compiler never interprets it; it only checks that all participating
// computations declare equal policies.
type PartitionPolicy struct {
	// Name is the label the policy was declared under. It does not take part
	// in equality.
	Name   string
	Kind   string
	Params cty.Value
}

// Equal compares two policies by value.
func (p *PartitionPolicy) Equal(other *PartitionPolicy) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Kind != other.Kind {
		return false
	}
	if p.Params.IsNull() || other.Params.IsNull() {
		return p.Params.IsNull() && other.Params.IsNull()
	}
	return p.Params.RawEquals(other.Params)
}

// String returns a short description used in messages.
func (p *PartitionPolicy) String() string {
	if p == nil {
		return "unpartitioned"
	}
	if p.Name != "" {
		return p.Name + " (" + p.Kind + ")"
	}
	return p.Kind
}
