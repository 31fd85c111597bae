package model

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Resource is a resource descriptor bound to a key. Two resources are the
// same resource iff their fingerprints are equal; implementations must derive
// the fingerprint from content, never from identity.
type Resource interface {
	Fingerprint() string
}

// ResourceDef is the declarative resource descriptor loaded from
// configuration: a resource type and its configuration value.
type ResourceDef struct {
	Type        string
	Description string
	Config      cty.Value
}

// Fingerprint returns a SHA-256 digest over the type and the JSON encoding of
// the configuration. Description does not contribute.
func (r *ResourceDef) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(r.Type))
	h.Write([]byte{0})
	h.Write(encodeValue(r.Config))
	return hex.EncodeToString(h.Sum(nil))
}

// encodeValue produces a stable byte encoding of a cty value. Object
// attributes and map keys are emitted in sorted order by the cty encoder.
func encodeValue(v cty.Value) []byte {
	if v.IsNull() {
		return []byte("null")
	}
	if !v.IsWhollyKnown() {
		return []byte(v.GoString())
	}
	data, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return []byte(v.GoString())
	}
	return data
}
