package hcl_adapter

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The decoder populates omitted optional expression fields with
// zero-width placeholder expressions, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// The most reliable check is to see if the expression's source range has a
	// physical size. A real attribute occupies bytes in the file, while a
	// placeholder for an omitted optional attribute has a zero-width range
	// where the start and end byte are the same.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"start_byte", exprRange.Start.Byte,
		"end_byte", exprRange.End.Byte,
		"is_defined", isDefined,
	)

	return isDefined
}
