package receiving

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultQuantityTolerance is the allowed relative deviation between
// expected and received quantity before a line is flagged as a mismatch.
var DefaultQuantityTolerance = decimal.RequireFromString("0.05")

// QuantityMismatch is a computed, non-persisted value describing a line
// whose received quantity deviates from the expected quantity beyond
// tolerance.
type QuantityMismatch struct {
	LineNumber      string          `json:"line_number"`
	SKU             string          `json:"sku"`
	Expected        decimal.Decimal `json:"expected"`
	Received        decimal.Decimal `json:"received"`
	VariancePercent decimal.Decimal `json:"variance_percent"`
}

// Reason returns the human-readable discrepancy description with the signed
// variance percentage to two decimal places.
func (m QuantityMismatch) Reason() string {
	sign := ""
	if !m.VariancePercent.IsNegative() {
		sign = "+"
	}
	return fmt.Sprintf("quantity variance %s%s%% exceeds tolerance: expected %s, received %s",
		sign, m.VariancePercent.StringFixed(2), m.Expected.String(), m.Received.String())
}

// CheckQuantityVariance applies the tolerance rule to one line. The
// comparison is strict: a deviation of exactly expected * tolerance is not a
// mismatch. Tolerance is computed against the expected quantity, never the
// received one. Returns nil when the line is within tolerance.
func CheckQuantityVariance(line *ASNLine, received, tolerance decimal.Decimal) *QuantityMismatch {
	deviation := received.Sub(line.ExpectedQty).Abs()
	allowed := line.ExpectedQty.Mul(tolerance)
	if !deviation.GreaterThan(allowed) {
		return nil
	}

	variance := received.Sub(line.ExpectedQty).
		Div(line.ExpectedQty).
		Mul(decimal.NewFromInt(100))

	return &QuantityMismatch{
		LineNumber:      line.LineNumber,
		SKU:             line.SKU,
		Expected:        line.ExpectedQty,
		Received:        received,
		VariancePercent: variance,
	}
}
