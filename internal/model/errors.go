package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
)

var (
	// ErrInvalidDefinition is matched by every DefinitionError.
	ErrInvalidDefinition = errors.New("invalid definition")
	// ErrInvariant is matched by every InvariantViolation.
	ErrInvariant = errors.New("compiler invariant violated")
)

// DefinitionError reports a user-authoring mistake. Key and Owner locate the
// offending artifact and the computation that declares it.
type DefinitionError struct {
	Key    assetkey.Key
	Owner  string
	Reason string
}

// Definitionf builds a DefinitionError with a formatted reason.
func Definitionf(key assetkey.Key, owner, format string, args ...any) *DefinitionError {
	return &DefinitionError{Key: key, Owner: owner, Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	switch {
	case e.Key != "" && e.Owner != "":
		return fmt.Sprintf("invalid definition (asset '%s' in '%s'): %s", e.Key, e.Owner, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("invalid definition (asset '%s'): %s", e.Key, e.Reason)
	case e.Owner != "":
		return fmt.Sprintf("invalid definition (in '%s'): %s", e.Owner, e.Reason)
	}
	return "invalid definition: " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidDefinition) true for any DefinitionError.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

// InvariantViolation reports a defect in the compiler itself. It never
// describes a user mistake.
type InvariantViolation struct {
	Detail string
}

// Invariantf builds an InvariantViolation with a formatted detail.
func Invariantf(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	return "compiler invariant violated: " + e.Detail
}

// Is makes errors.Is(err, ErrInvariant) true for any InvariantViolation.
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariant
}
