// Package model defines the immutable inputs of the job compiler: computation
// definitions, source assets, resource bindings and partition policies, plus
// the error kinds the compiler reports.
//
// Values of these types are supplied by the caller and are never mutated by
// the compiler. Operations that need a different shape (for example
// Definition.Subset) return new values.
package model
