package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeASN = "ASN"

// Event type constants. The goods-received and receiving-mismatch topics
// are consumed by the put-away and supplier-discrepancy workflows.
const (
	EventTypeASNScheduled      = "inventory.asn.scheduled"
	EventTypeReceivingStarted  = "inventory.asn.receiving_started"
	EventTypeASNCancelled      = "inventory.asn.cancelled"
	EventTypeGoodsReceived     = "inventory.goods.received"
	EventTypeReceivingMismatch = "inventory.receiving.mismatch"
)

// ASNScheduledEvent is raised when an ASN passes validation and is scheduled
type ASNScheduledEvent struct {
	shared.BaseDomainEvent
	ASNNumber       string    `json:"asn_number"`
	PONumber        string    `json:"po_number"`
	SupplierID      string    `json:"supplier_id"`
	Carrier         string    `json:"carrier,omitempty"`
	Dock            string    `json:"dock"`
	ExpectedArrival time.Time `json:"expected_arrival"`
	LineCount       int       `json:"line_count"`
}

// NewASNScheduledEvent creates a new ASNScheduledEvent
func NewASNScheduledEvent(asn *ASN) *ASNScheduledEvent {
	return &ASNScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeASNScheduled, AggregateTypeASN, asn.ID, asn.Version),
		ASNNumber:       asn.ASNNumber,
		PONumber:        asn.PONumber,
		SupplierID:      asn.SupplierID,
		Carrier:         asn.Carrier,
		Dock:            asn.Dock,
		ExpectedArrival: asn.ExpectedArrival,
		LineCount:       len(asn.Lines),
	}
}

// EventType returns the event type name
func (e *ASNScheduledEvent) EventType() string {
	return EventTypeASNScheduled
}

// ReceivingStartedEvent is raised when a shipment arrives at a dock and
// unloading begins
type ReceivingStartedEvent struct {
	shared.BaseDomainEvent
	ASNNumber     string    `json:"asn_number"`
	Dock          string    `json:"dock"`
	AppointmentID uuid.UUID `json:"appointment_id"`
}

// NewReceivingStartedEvent creates a new ReceivingStartedEvent
func NewReceivingStartedEvent(asn *ASN, appointmentID uuid.UUID) *ReceivingStartedEvent {
	return &ReceivingStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivingStarted, AggregateTypeASN, asn.ID, asn.Version),
		ASNNumber:       asn.ASNNumber,
		Dock:            asn.Dock,
		AppointmentID:   appointmentID,
	}
}

// EventType returns the event type name
func (e *ReceivingStartedEvent) EventType() string {
	return EventTypeReceivingStarted
}

// ASNCancelledEvent is raised when an ASN is cancelled
type ASNCancelledEvent struct {
	shared.BaseDomainEvent
	ASNNumber string `json:"asn_number"`
	Reason    string `json:"reason,omitempty"`
}

// NewASNCancelledEvent creates a new ASNCancelledEvent
func NewASNCancelledEvent(asn *ASN, reason string) *ASNCancelledEvent {
	return &ASNCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeASNCancelled, AggregateTypeASN, asn.ID, asn.Version),
		ASNNumber:       asn.ASNNumber,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *ASNCancelledEvent) EventType() string {
	return EventTypeASNCancelled
}

// ReceivedLineEntry is one received line within a GoodsReceivedEvent
type ReceivedLineEntry struct {
	SKU           string          `json:"sku"`
	GTIN          string          `json:"gtin,omitempty"`
	Quantity      decimal.Decimal `json:"qty"`
	UOM           string          `json:"uom"`
	Lot           string          `json:"lot,omitempty"`
	ExpDate       *time.Time      `json:"exp_date,omitempty"`
	QualityStatus QAStatus        `json:"quality_status"`
}

// GoodsReceivedEvent is raised exactly once per completed receiving batch,
// regardless of whether mismatches occurred. It triggers stock increment
// and put-away downstream.
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	ASNNumber string              `json:"asn_number"`
	PONumber  string              `json:"po_number"`
	Dock      string              `json:"dock"`
	Lines     []ReceivedLineEntry `json:"lines"`
}

// NewGoodsReceivedEvent creates a new GoodsReceivedEvent from the received
// lines of the ASN
func NewGoodsReceivedEvent(asn *ASN) *GoodsReceivedEvent {
	received := asn.ReceivedLines()
	lines := make([]ReceivedLineEntry, 0, len(received))
	for _, line := range received {
		lines = append(lines, ReceivedLineEntry{
			SKU:           line.SKU,
			GTIN:          line.GTIN,
			Quantity:      line.ReceivedQty,
			UOM:           line.UOM,
			Lot:           line.Lot,
			ExpDate:       line.ExpDate,
			QualityStatus: line.QAStatus,
		})
	}

	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceived, AggregateTypeASN, asn.ID, asn.Version),
		ASNNumber:       asn.ASNNumber,
		PONumber:        asn.PONumber,
		Dock:            asn.Dock,
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *GoodsReceivedEvent) EventType() string {
	return EventTypeGoodsReceived
}

// DiscrepancyEntry is one out-of-tolerance line within a
// ReceivingMismatchEvent
type DiscrepancyEntry struct {
	SKU         string          `json:"sku"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Reason      string          `json:"reason"`
}

// ReceivingMismatchEvent is raised only when a receiving batch produced at
// least one quantity mismatch. It triggers the supplier-discrepancy
// workflow downstream.
type ReceivingMismatchEvent struct {
	shared.BaseDomainEvent
	ASNNumber     string             `json:"asn_number"`
	PONumber      string             `json:"po_number"`
	Discrepancies []DiscrepancyEntry `json:"discrepancies"`
}

// NewReceivingMismatchEvent creates a new ReceivingMismatchEvent
func NewReceivingMismatchEvent(asn *ASN, mismatches []QuantityMismatch) *ReceivingMismatchEvent {
	discrepancies := make([]DiscrepancyEntry, 0, len(mismatches))
	for _, m := range mismatches {
		discrepancies = append(discrepancies, DiscrepancyEntry{
			SKU:         m.SKU,
			ExpectedQty: m.Expected,
			ReceivedQty: m.Received,
			Reason:      m.Reason(),
		})
	}

	return &ReceivingMismatchEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivingMismatch, AggregateTypeASN, asn.ID, asn.Version),
		ASNNumber:       asn.ASNNumber,
		PONumber:        asn.PONumber,
		Discrepancies:   discrepancies,
	}
}

// EventType returns the event type name
func (e *ReceivingMismatchEvent) EventType() string {
	return EventTypeReceivingMismatch
}
