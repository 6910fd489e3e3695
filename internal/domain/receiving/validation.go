package receiving

import (
	"fmt"

	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValidateStructure checks the structural rules for an ASN before it is
// created: non-empty identity fields, at least one line, and every line with
// a SKU and a positive expected quantity. It is a pure function of its
// input, so calling it twice with the same data yields the same verdict.
func ValidateStructure(asnNumber, poNumber, supplierID string, lines []ASNLine) error {
	if asnNumber == "" {
		return shared.NewValidationError("ASN number cannot be empty")
	}
	if poNumber == "" {
		return shared.NewValidationError("PO number cannot be empty")
	}
	if supplierID == "" {
		return shared.NewValidationError("Supplier ID cannot be empty")
	}
	if len(lines) == 0 {
		return shared.NewValidationError("ASN must have at least one line")
	}

	seen := make(map[string]struct{}, len(lines))
	for i := range lines {
		line := &lines[i]
		if line.LineNumber == "" {
			return shared.NewValidationError(fmt.Sprintf("Line %d has no line number", i+1))
		}
		if _, dup := seen[line.LineNumber]; dup {
			return shared.NewValidationError(fmt.Sprintf("Duplicate line number %s", line.LineNumber))
		}
		seen[line.LineNumber] = struct{}{}

		if line.SKU == "" {
			return shared.NewValidationError(fmt.Sprintf("Line %s has no SKU", line.LineNumber))
		}
		if line.ExpectedQty.LessThanOrEqual(decimal.Zero) {
			return shared.NewValidationError(fmt.Sprintf("Line %s expected quantity must be positive", line.LineNumber))
		}
	}

	return nil
}
