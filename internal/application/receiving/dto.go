package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/shopspring/decimal"
)

// ASNLineInput describes one expected line of an inbound shipment
type ASNLineInput struct {
	LineNumber  string
	SKU         string
	GTIN        string
	ExpectedQty decimal.Decimal
	UOM         string
	Lot         string
	Serial      string
	ExpDate     *time.Time
	MfgDate     *time.Time
}

// ProcessASNInput is the request to register and schedule an ASN
type ProcessASNInput struct {
	ASNNumber       string
	PONumber        string
	SupplierID      string
	Carrier         string
	ExpectedArrival time.Time
	Dock            string // optional, assigned when empty
	Notes           string
	Lines           []ASNLineInput
}

// CarrierInfo carries the arrival details reported at the gate
type CarrierInfo struct {
	Carrier       string
	DriverName    string
	VehicleNumber string
}

// CriterionInput is one observed quality criterion outcome
type CriterionInput struct {
	Criterion string
	Expected  string
	Actual    string
	Pass      bool
	Required  bool
	Notes     string
}

// ReceiveLineInput is the per-line receipt data supplied by the dock worker
type ReceiveLineInput struct {
	LineNumber     string
	ReceivedQty    decimal.Decimal
	Lot            string
	Serial         string
	QARequired     bool
	InspectionType receiving.InspectionType
	InspectedBy    string
	Criteria       []CriterionInput
}

// ASNLineResponse is the read model of one ASN line
type ASNLineResponse struct {
	LineNumber  string             `json:"line_number"`
	SKU         string             `json:"sku"`
	GTIN        string             `json:"gtin,omitempty"`
	ExpectedQty decimal.Decimal    `json:"expected_qty"`
	UOM         string             `json:"uom"`
	Lot         string             `json:"lot,omitempty"`
	Serial      string             `json:"serial,omitempty"`
	ExpDate     *time.Time         `json:"exp_date,omitempty"`
	MfgDate     *time.Time         `json:"mfg_date,omitempty"`
	Received    bool               `json:"received"`
	ReceivedQty decimal.Decimal    `json:"received_qty"`
	QAStatus    receiving.QAStatus `json:"qa_status"`
	QANotes     string             `json:"qa_notes,omitempty"`
}

// ASNResponse is the read model of an ASN
type ASNResponse struct {
	ID              uuid.UUID           `json:"id"`
	ASNNumber       string              `json:"asn_number"`
	PONumber        string              `json:"po_number"`
	SupplierID      string              `json:"supplier_id"`
	Carrier         string              `json:"carrier,omitempty"`
	ExpectedArrival time.Time           `json:"expected_arrival"`
	Dock            string              `json:"dock,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Status          receiving.ASNStatus `json:"status"`
	Version         int                 `json:"version"`
	Lines           []ASNLineResponse   `json:"lines"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToASNResponse maps the aggregate to its read model
func ToASNResponse(asn *receiving.ASN) ASNResponse {
	lines := make([]ASNLineResponse, 0, len(asn.Lines))
	for _, line := range asn.Lines {
		lines = append(lines, ASNLineResponse{
			LineNumber:  line.LineNumber,
			SKU:         line.SKU,
			GTIN:        line.GTIN,
			ExpectedQty: line.ExpectedQty,
			UOM:         line.UOM,
			Lot:         line.Lot,
			Serial:      line.Serial,
			ExpDate:     line.ExpDate,
			MfgDate:     line.MfgDate,
			Received:    line.Received,
			ReceivedQty: line.ReceivedQty,
			QAStatus:    line.QAStatus,
			QANotes:     line.QANotes,
		})
	}

	return ASNResponse{
		ID:              asn.ID,
		ASNNumber:       asn.ASNNumber,
		PONumber:        asn.PONumber,
		SupplierID:      asn.SupplierID,
		Carrier:         asn.Carrier,
		ExpectedArrival: asn.ExpectedArrival,
		Dock:            asn.Dock,
		Notes:           asn.Notes,
		Status:          asn.Status,
		Version:         asn.Version,
		Lines:           lines,
		CreatedAt:       asn.CreatedAt,
		UpdatedAt:       asn.UpdatedAt,
	}
}

// InspectionResponse is the read model of one quality inspection
type InspectionResponse struct {
	ID          uuid.UUID                    `json:"id"`
	LineNumber  string                       `json:"line_number"`
	SKU         string                       `json:"sku"`
	Quantity    decimal.Decimal              `json:"quantity"`
	Type        receiving.InspectionType     `json:"type"`
	Result      receiving.InspectionResult   `json:"result"`
	Criteria    []receiving.QualityCriterion `json:"criteria"`
	InspectedBy string                       `json:"inspected_by"`
	InspectedAt time.Time                    `json:"inspected_at"`
}

// ToInspectionResponse maps an inspection to its read model
func ToInspectionResponse(qi *receiving.QualityInspection) InspectionResponse {
	return InspectionResponse{
		ID:          qi.ID,
		LineNumber:  qi.LineNumber,
		SKU:         qi.SKU,
		Quantity:    qi.Quantity,
		Type:        qi.Type,
		Result:      qi.Result,
		Criteria:    qi.Criteria,
		InspectedBy: qi.InspectedBy,
		InspectedAt: qi.InspectedAt,
	}
}

// ReceiveGoodsResult is the outcome of one receiving batch
type ReceiveGoodsResult struct {
	ASN         ASNResponse                  `json:"asn"`
	Mismatches  []receiving.QuantityMismatch `json:"mismatches"`
	Inspections []InspectionResponse         `json:"inspections"`
}
