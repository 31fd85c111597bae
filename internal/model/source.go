package model

import (
	"github.com/specialistvlad/assetgraph/internal/assetkey"
)

// SourceAsset is an artifact produced outside the job. It is only ever a
// dependency target and is never scheduled.
type SourceAsset struct {
	Key       assetkey.Key
	Group     string
	Resources map[string]Resource
	Requires  []string
}

// GroupName returns the asset's group, falling back to DefaultGroup.
func (s *SourceAsset) GroupName() string {
	if s.Group == "" {
		return DefaultGroup
	}
	return s.Group
}
