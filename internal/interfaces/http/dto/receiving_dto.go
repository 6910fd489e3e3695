package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ASNLineRequest is one expected line in an inbound notice
type ASNLineRequest struct {
	LineNumber  string          `json:"line_number" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	GTIN        string          `json:"gtin"`
	ExpectedQty decimal.Decimal `json:"expected_qty" binding:"required"`
	UOM         string          `json:"uom"`
	Lot         string          `json:"lot"`
	Serial      string          `json:"serial"`
	ExpDate     *time.Time      `json:"exp_date"`
	MfgDate     *time.Time      `json:"mfg_date"`
}

// CreateASNRequest registers a new inbound notice
type CreateASNRequest struct {
	ASNNumber       string           `json:"asn_number" binding:"required"`
	PONumber        string           `json:"po_number" binding:"required"`
	SupplierID      string           `json:"supplier_id" binding:"required"`
	Carrier         string           `json:"carrier"`
	ExpectedArrival time.Time        `json:"expected_arrival" binding:"required"`
	Dock            string           `json:"dock"`
	Notes           string           `json:"notes"`
	Lines           []ASNLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StartReceivingRequest opens a receiving session at a dock
type StartReceivingRequest struct {
	Dock          string `json:"dock"`
	Carrier       string `json:"carrier"`
	DriverName    string `json:"driver_name"`
	VehicleNumber string `json:"vehicle_number"`
}

// CriterionRequest is one quality check applied during inspection
type CriterionRequest struct {
	Criterion string `json:"criterion" binding:"required"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Pass      bool   `json:"pass"`
	Required  bool   `json:"required"`
	Notes     string `json:"notes"`
}

// ReceiveLineRequest records the receipt of one line
type ReceiveLineRequest struct {
	LineNumber     string             `json:"line_number" binding:"required"`
	ReceivedQty    decimal.Decimal    `json:"received_qty" binding:"required"`
	Lot            string             `json:"lot"`
	Serial         string             `json:"serial"`
	QARequired     bool               `json:"qa_required"`
	InspectionType string             `json:"inspection_type" binding:"omitempty,oneof=visual measurement functional documentation"`
	InspectedBy    string             `json:"inspected_by"`
	Criteria       []CriterionRequest `json:"criteria" binding:"omitempty,dive"`
}

// ReceiveGoodsRequest records the receipt of a batch of lines
type ReceiveGoodsRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CancelASNRequest cancels an inbound notice
type CancelASNRequest struct {
	Reason string `json:"reason" binding:"required"`
}
