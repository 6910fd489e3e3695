package receiving

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLine(t *testing.T, expected int64) *ASNLine {
	t.Helper()
	line, err := NewASNLine("1", "WIDGET-001", "", decimal.NewFromInt(expected), "EA")
	require.NoError(t, err)
	return line
}

func TestCheckQuantityVariance(t *testing.T) {
	tolerance := DefaultQuantityTolerance

	t.Run("exact quantity is not a mismatch", func(t *testing.T) {
		line := makeLine(t, 100)

		assert.Nil(t, CheckQuantityVariance(line, decimal.NewFromInt(100), tolerance))
	})

	t.Run("deviation within tolerance is not a mismatch", func(t *testing.T) {
		line := makeLine(t, 100)

		assert.Nil(t, CheckQuantityVariance(line, decimal.NewFromInt(97), tolerance))
		assert.Nil(t, CheckQuantityVariance(line, decimal.NewFromInt(103), tolerance))
	})

	t.Run("deviation exactly at the boundary is not a mismatch", func(t *testing.T) {
		line := makeLine(t, 100)

		assert.Nil(t, CheckQuantityVariance(line, decimal.NewFromInt(95), tolerance))
		assert.Nil(t, CheckQuantityVariance(line, decimal.NewFromInt(105), tolerance))
	})

	t.Run("deviation just past the boundary is a mismatch", func(t *testing.T) {
		line := makeLine(t, 100)

		m := CheckQuantityVariance(line, decimal.RequireFromString("105.0001"), tolerance)
		require.NotNil(t, m)

		m = CheckQuantityVariance(line, decimal.RequireFromString("94.9999"), tolerance)
		require.NotNil(t, m)
	})

	t.Run("short receipt reports signed negative variance", func(t *testing.T) {
		line := makeLine(t, 100)

		m := CheckQuantityVariance(line, decimal.NewFromInt(94), tolerance)

		require.NotNil(t, m)
		assert.Equal(t, "1", m.LineNumber)
		assert.Equal(t, "WIDGET-001", m.SKU)
		assert.True(t, m.Expected.Equal(decimal.NewFromInt(100)))
		assert.True(t, m.Received.Equal(decimal.NewFromInt(94)))
		assert.True(t, m.VariancePercent.Equal(decimal.NewFromInt(-6)))
		assert.Contains(t, m.Reason(), "-6.00%")
	})

	t.Run("over receipt reports signed positive variance", func(t *testing.T) {
		line := makeLine(t, 100)

		m := CheckQuantityVariance(line, decimal.NewFromInt(110), tolerance)

		require.NotNil(t, m)
		assert.True(t, m.VariancePercent.Equal(decimal.NewFromInt(10)))
		assert.Contains(t, m.Reason(), "+10.00%")
	})

	t.Run("zero receipt of a positive expectation is a mismatch", func(t *testing.T) {
		line := makeLine(t, 40)

		m := CheckQuantityVariance(line, decimal.Zero, tolerance)

		require.NotNil(t, m)
		assert.True(t, m.VariancePercent.Equal(decimal.NewFromInt(-100)))
	})

	t.Run("tolerance scales with expected quantity", func(t *testing.T) {
		small := makeLine(t, 10)
		large := makeLine(t, 1000)

		// 3 units off is past 5% of 10 but well inside 5% of 1000
		assert.NotNil(t, CheckQuantityVariance(small, decimal.NewFromInt(13), tolerance))
		assert.Nil(t, CheckQuantityVariance(large, decimal.NewFromInt(1003), tolerance))
	})

	t.Run("fractional quantities respect the boundary", func(t *testing.T) {
		line, err := NewASNLine("1", "BULK-001", "", decimal.RequireFromString("12.5"), "KG")
		require.NoError(t, err)

		// 5% of 12.5 is 0.625
		assert.Nil(t, CheckQuantityVariance(line, decimal.RequireFromString("13.125"), tolerance))
		assert.NotNil(t, CheckQuantityVariance(line, decimal.RequireFromString("13.126"), tolerance))
	})
}
