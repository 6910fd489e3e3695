package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InspectionType classifies how a quality inspection was performed
type InspectionType string

const (
	InspectionTypeVisual        InspectionType = "visual"
	InspectionTypeMeasurement   InspectionType = "measurement"
	InspectionTypeFunctional    InspectionType = "functional"
	InspectionTypeDocumentation InspectionType = "documentation"
)

// IsValid checks if the inspection type is known
func (t InspectionType) IsValid() bool {
	switch t {
	case InspectionTypeVisual, InspectionTypeMeasurement, InspectionTypeFunctional, InspectionTypeDocumentation:
		return true
	}
	return false
}

// InspectionResult is the overall verdict of a quality inspection
type InspectionResult string

const (
	InspectionResultPass        InspectionResult = "pass"
	InspectionResultFail        InspectionResult = "fail"
	InspectionResultConditional InspectionResult = "conditional"
)

// QualityCriterion is one checked criterion within an inspection
type QualityCriterion struct {
	Criterion string `json:"criterion"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Pass      bool   `json:"pass"`
	Required  bool   `json:"required"`
	Notes     string `json:"notes,omitempty"`
}

// EvaluateCriteria derives the overall verdict from the criteria list:
// fail when any required criterion fails, conditional when only optional
// criteria fail, pass otherwise. The verdict is never recorded
// independently of the criteria.
func EvaluateCriteria(criteria []QualityCriterion) InspectionResult {
	result := InspectionResultPass
	for _, c := range criteria {
		if c.Pass {
			continue
		}
		if c.Required {
			return InspectionResultFail
		}
		result = InspectionResultConditional
	}
	return result
}

// DefaultCriteria returns the standard two-criterion receiving checklist.
// Callers supply the observed pass/fail outcome per criterion; this is the
// checklist used when an inspection is requested without explicit criteria.
func DefaultCriteria(packagingIntact, productOK bool) []QualityCriterion {
	return []QualityCriterion{
		{
			Criterion: "packaging_integrity",
			Expected:  "intact",
			Actual:    passActual(packagingIntact, "intact", "damaged"),
			Pass:      packagingIntact,
			Required:  true,
		},
		{
			Criterion: "product_condition",
			Expected:  "acceptable",
			Actual:    passActual(productOK, "acceptable", "defective"),
			Pass:      productOK,
			Required:  true,
		},
	}
}

func passActual(pass bool, ok, bad string) string {
	if pass {
		return ok
	}
	return bad
}

// QualityInspection records one inspection of one received line
type QualityInspection struct {
	shared.BaseEntity
	ASNID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNumber string    `gorm:"not null"`
	SKU        string    `gorm:"not null"`
	Lot        string
	Serial     string
	Quantity   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Type       InspectionType     `gorm:"not null"`
	Criteria   []QualityCriterion `gorm:"serializer:json"`
	Result     InspectionResult   `gorm:"not null"`
	InspectedBy string            `gorm:"not null"`
	InspectedAt time.Time
}

// TableName returns the table name for GORM
func (QualityInspection) TableName() string {
	return "quality_inspections"
}

// NewQualityInspection evaluates the criteria for one received line and
// returns the inspection record. The result is always derived from the
// criteria list via EvaluateCriteria.
func NewQualityInspection(asnID uuid.UUID, line *ASNLine, quantity decimal.Decimal, inspectionType InspectionType, inspectedBy string, criteria []QualityCriterion) (*QualityInspection, error) {
	if line == nil {
		return nil, shared.NewValidationError("Inspection requires a line")
	}
	if !inspectionType.IsValid() {
		return nil, shared.NewValidationError("Unknown inspection type")
	}
	if len(criteria) == 0 {
		return nil, shared.NewValidationError("Inspection requires at least one criterion")
	}
	if inspectedBy == "" {
		inspectedBy = "system"
	}

	return &QualityInspection{
		BaseEntity:  shared.NewBaseEntity(),
		ASNID:       asnID,
		LineNumber:  line.LineNumber,
		SKU:         line.SKU,
		Lot:         line.Lot,
		Serial:      line.Serial,
		Quantity:    quantity,
		Type:        inspectionType,
		Criteria:    criteria,
		Result:      EvaluateCriteria(criteria),
		InspectedBy: inspectedBy,
		InspectedAt: time.Now(),
	}, nil
}

// QAVerdict maps the inspection result onto the line-level QA status.
// A conditional result still releases the goods, with the condition noted.
func (qi *QualityInspection) QAVerdict() QAStatus {
	if qi.Result == InspectionResultFail {
		return QAStatusFailed
	}
	return QAStatusPassed
}

// FailedCriteria returns the criteria that did not pass
func (qi *QualityInspection) FailedCriteria() []QualityCriterion {
	failed := make([]QualityCriterion, 0)
	for _, c := range qi.Criteria {
		if !c.Pass {
			failed = append(failed, c)
		}
	}
	return failed
}
