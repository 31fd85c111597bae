/*
Package assetkey provides the identifier used to name a logical data artifact,
based on the canonical format `segment/segment/...`.

A Key is a hierarchical path of string segments. Keys are comparable (they can
be used directly as map keys) and totally ordered segment by segment, so every
structure derived from them can be sorted deterministically.

This package enforces the identifier schema and centralizes all formatting
and parsing logic.
*/
package assetkey
