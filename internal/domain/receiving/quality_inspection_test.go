package receiving

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCriteria(t *testing.T) {
	t.Run("all passing yields pass", func(t *testing.T) {
		criteria := DefaultCriteria(true, true)

		assert.Equal(t, InspectionResultPass, EvaluateCriteria(criteria))
	})

	t.Run("failing required criterion yields fail", func(t *testing.T) {
		criteria := DefaultCriteria(false, true)

		assert.Equal(t, InspectionResultFail, EvaluateCriteria(criteria))
	})

	t.Run("failing only optional criteria yields conditional", func(t *testing.T) {
		criteria := []QualityCriterion{
			{Criterion: "packaging_integrity", Pass: true, Required: true},
			{Criterion: "label_placement", Pass: false, Required: false},
		}

		assert.Equal(t, InspectionResultConditional, EvaluateCriteria(criteria))
	})

	t.Run("required failure dominates optional failure", func(t *testing.T) {
		criteria := []QualityCriterion{
			{Criterion: "label_placement", Pass: false, Required: false},
			{Criterion: "product_condition", Pass: false, Required: true},
		}

		assert.Equal(t, InspectionResultFail, EvaluateCriteria(criteria))
	})

	t.Run("empty criteria list yields pass", func(t *testing.T) {
		assert.Equal(t, InspectionResultPass, EvaluateCriteria(nil))
	})
}

func TestNewQualityInspection(t *testing.T) {
	asnID := uuid.New()
	line, err := NewASNLine("1", "WIDGET-001", "", decimal.NewFromInt(100), "EA")
	require.NoError(t, err)
	line.WithTracking("LOT-A", "SN-9", nil, nil)

	t.Run("derives result from criteria", func(t *testing.T) {
		qi, err := NewQualityInspection(asnID, line, decimal.NewFromInt(100), InspectionTypeVisual, "jlopez", DefaultCriteria(true, true))

		require.NoError(t, err)
		assert.Equal(t, InspectionResultPass, qi.Result)
		assert.Equal(t, QAStatusPassed, qi.QAVerdict())
		assert.Equal(t, "WIDGET-001", qi.SKU)
		assert.Equal(t, "LOT-A", qi.Lot)
		assert.Equal(t, "jlopez", qi.InspectedBy)
		assert.False(t, qi.InspectedAt.IsZero())
	})

	t.Run("failed required criterion fails the verdict", func(t *testing.T) {
		qi, err := NewQualityInspection(asnID, line, decimal.NewFromInt(100), InspectionTypeVisual, "", DefaultCriteria(true, false))

		require.NoError(t, err)
		assert.Equal(t, InspectionResultFail, qi.Result)
		assert.Equal(t, QAStatusFailed, qi.QAVerdict())
		assert.Equal(t, "system", qi.InspectedBy)
		require.Len(t, qi.FailedCriteria(), 1)
		assert.Equal(t, "product_condition", qi.FailedCriteria()[0].Criterion)
	})

	t.Run("conditional result still releases the goods", func(t *testing.T) {
		criteria := []QualityCriterion{
			{Criterion: "packaging_integrity", Pass: true, Required: true},
			{Criterion: "label_placement", Pass: false, Required: false},
		}

		qi, err := NewQualityInspection(asnID, line, decimal.NewFromInt(100), InspectionTypeVisual, "", criteria)

		require.NoError(t, err)
		assert.Equal(t, InspectionResultConditional, qi.Result)
		assert.Equal(t, QAStatusPassed, qi.QAVerdict())
	})

	t.Run("rejects unknown inspection type", func(t *testing.T) {
		_, err := NewQualityInspection(asnID, line, decimal.NewFromInt(100), InspectionType("telepathic"), "", DefaultCriteria(true, true))

		require.Error(t, err)
	})

	t.Run("rejects empty criteria", func(t *testing.T) {
		_, err := NewQualityInspection(asnID, line, decimal.NewFromInt(100), InspectionTypeVisual, "", nil)

		require.Error(t, err)
	})

	t.Run("rejects nil line", func(t *testing.T) {
		_, err := NewQualityInspection(asnID, nil, decimal.NewFromInt(100), InspectionTypeVisual, "", DefaultCriteria(true, true))

		require.Error(t, err)
	})
}
