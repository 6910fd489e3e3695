package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ASNStatus represents the lifecycle status of an advance shipping notice
type ASNStatus string

const (
	ASNStatusScheduled ASNStatus = "scheduled"
	ASNStatusInTransit ASNStatus = "in_transit"
	ASNStatusArrived   ASNStatus = "arrived"
	ASNStatusReceiving ASNStatus = "receiving"
	ASNStatusCompleted ASNStatus = "completed"
	ASNStatusCancelled ASNStatus = "cancelled"
)

// IsValid checks if the status is a valid ASNStatus
func (s ASNStatus) IsValid() bool {
	switch s {
	case ASNStatusScheduled, ASNStatusInTransit, ASNStatusArrived,
		ASNStatusReceiving, ASNStatusCompleted, ASNStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ASNStatus
func (s ASNStatus) String() string {
	return string(s)
}

// IsTerminal returns true for absorbing states
func (s ASNStatus) IsTerminal() bool {
	return s == ASNStatusCompleted || s == ASNStatusCancelled
}

// rank orders the forward-only states. Cancelled is not ranked: it is an
// escape hatch reachable from any non-terminal state.
func (s ASNStatus) rank() int {
	switch s {
	case ASNStatusScheduled:
		return 0
	case ASNStatusInTransit:
		return 1
	case ASNStatusArrived:
		return 2
	case ASNStatusReceiving:
		return 3
	case ASNStatusCompleted:
		return 4
	}
	return -1
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are monotonic forward; skipping intermediate states is allowed
// (an ASN may go straight from scheduled to receiving when the truck shows
// up unannounced). Cancelled is reachable from any non-terminal state.
func (s ASNStatus) CanTransitionTo(target ASNStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == ASNStatusCancelled {
		return true
	}
	return target.rank() > s.rank()
}

// QAStatus represents the quality verdict recorded on a received line
type QAStatus string

const (
	QAStatusPending QAStatus = "pending"
	QAStatusPassed  QAStatus = "passed"
	QAStatusFailed  QAStatus = "failed"
)

// ASNLine is a line item owned by its ASN. It has no identity outside the
// parent aggregate; LineNumber is unique only within one ASN.
type ASNLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ASNID       uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNumber  string    `gorm:"not null"`
	SKU         string    `gorm:"not null"`
	GTIN        string
	ExpectedQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM         string
	Lot         string
	Serial      string
	ExpDate     *time.Time
	MfgDate     *time.Time

	// Result fields, populated only during receiving
	Received    bool            `gorm:"not null;default:false"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QAStatus    QAStatus        `gorm:"not null;default:pending"`
	QANotes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewASNLine creates a new ASN line
func NewASNLine(lineNumber, sku, gtin string, expectedQty decimal.Decimal, uom string) (*ASNLine, error) {
	if lineNumber == "" {
		return nil, shared.NewValidationError("Line number cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewValidationError("SKU cannot be empty")
	}
	if expectedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(fmt.Sprintf("Expected quantity must be positive for SKU %s", sku))
	}

	now := time.Now()
	return &ASNLine{
		ID:          uuid.New(),
		LineNumber:  lineNumber,
		SKU:         sku,
		GTIN:        gtin,
		ExpectedQty: expectedQty,
		UOM:         uom,
		QAStatus:    QAStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// WithTracking attaches optional lot/serial/date tracking data to the line
func (l *ASNLine) WithTracking(lot, serial string, expDate, mfgDate *time.Time) *ASNLine {
	l.Lot = lot
	l.Serial = serial
	l.ExpDate = expDate
	l.MfgDate = mfgDate
	return l
}

// RecordReceipt sets the received quantity exactly once. Lot and serial from
// the receipt override the advance data when present, otherwise the advance
// values stand. Re-receipt of a line is a higher-layer operation and is
// rejected here.
func (l *ASNLine) RecordReceipt(qty decimal.Decimal, lot, serial string) error {
	if l.Received {
		return shared.NewDomainError("RECEIPT_ALREADY_RECORDED", fmt.Sprintf("Line %s already has a recorded receipt", l.LineNumber))
	}
	if qty.IsNegative() {
		return shared.NewValidationError("Received quantity cannot be negative")
	}

	l.ReceivedQty = qty
	l.Received = true
	if lot != "" {
		l.Lot = lot
	}
	if serial != "" {
		l.Serial = serial
	}
	l.UpdatedAt = time.Now()

	return nil
}

// ApplyQAVerdict records the quality outcome on the line
func (l *ASNLine) ApplyQAVerdict(status QAStatus, notes string) {
	l.QAStatus = status
	l.QANotes = notes
	l.UpdatedAt = time.Now()
}

// ASN represents an advance shipping notice: the supplier's pre-arrival
// manifest of an inbound shipment. It is the aggregate root for the
// receiving process.
type ASN struct {
	shared.BaseAggregateRoot
	ASNNumber       string `gorm:"not null;uniqueIndex"`
	PONumber        string `gorm:"not null;index"`
	SupplierID      string `gorm:"not null;index"`
	Carrier         string
	ExpectedArrival time.Time
	Dock            string // empty until assigned
	Notes           string
	Status          ASNStatus `gorm:"not null;index"`
	Lines           []ASNLine `gorm:"foreignKey:ASNID;references:ID"`
}

// TableName returns the table name for GORM
func (ASN) TableName() string {
	return "asns"
}

// NewASN creates a new ASN in scheduled state. An ASN without lines is
// invalid and is never created; see ValidateStructure for the full rules.
func NewASN(asnNumber, poNumber, supplierID, carrier string, expectedArrival time.Time, notes string, lines []ASNLine) (*ASN, error) {
	if err := ValidateStructure(asnNumber, poNumber, supplierID, lines); err != nil {
		return nil, err
	}

	asn := &ASN{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ASNNumber:         asnNumber,
		PONumber:          poNumber,
		SupplierID:        supplierID,
		Carrier:           carrier,
		ExpectedArrival:   expectedArrival,
		Notes:             notes,
		Status:            ASNStatusScheduled,
		Lines:             make([]ASNLine, 0, len(lines)),
	}

	for i := range lines {
		line := lines[i]
		line.ASNID = asn.ID
		asn.Lines = append(asn.Lines, line)
	}

	return asn, nil
}

// AssignDock records the dock on the ASN before arrival
func (a *ASN) AssignDock(dock string) error {
	if dock == "" {
		return shared.NewValidationError("Dock identifier cannot be empty")
	}
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a dock to a closed ASN")
	}

	a.Dock = dock
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Schedule confirms the ASN as scheduled and emits the scheduled event.
// Every scheduled ASN must carry a dock before receiving starts.
func (a *ASN) Schedule() error {
	if a.Dock == "" {
		return shared.NewDomainError("DOCK_NOT_ASSIGNED", "Scheduled ASN must have a dock assigned")
	}

	a.AddDomainEvent(NewASNScheduledEvent(a))

	return nil
}

// MarkInTransit records that the carrier has picked up the shipment
func (a *ASN) MarkInTransit() error {
	if !a.Status.CanTransitionTo(ASNStatusInTransit) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to in_transit", a.Status))
	}

	a.Status = ASNStatusInTransit
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// MarkArrived records that the shipment is at the gate
func (a *ASN) MarkArrived() error {
	if !a.Status.CanTransitionTo(ASNStatusArrived) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to arrived", a.Status))
	}

	a.Status = ASNStatusArrived
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// BeginReceiving transitions the ASN to receiving and records the dock the
// goods are actually being unloaded at (which may differ from the one
// assigned up front).
func (a *ASN) BeginReceiving(dock string, appointmentID uuid.UUID) error {
	if !a.Status.CanTransitionTo(ASNStatusReceiving) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to receiving", a.Status))
	}
	if dock == "" {
		dock = a.Dock
	}
	if dock == "" {
		return shared.NewDomainError("DOCK_NOT_ASSIGNED", "Cannot start receiving without a dock")
	}

	a.Status = ASNStatusReceiving
	a.Dock = dock
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewReceivingStartedEvent(a, appointmentID))

	return nil
}

// FindLine returns the line with the given line number, or nil
func (a *ASN) FindLine(lineNumber string) *ASNLine {
	for i := range a.Lines {
		if a.Lines[i].LineNumber == lineNumber {
			return &a.Lines[i]
		}
	}
	return nil
}

// ReceivedLines returns the lines with a recorded receipt
func (a *ASN) ReceivedLines() []ASNLine {
	result := make([]ASNLine, 0, len(a.Lines))
	for _, line := range a.Lines {
		if line.Received {
			result = append(result, line)
		}
	}
	return result
}

// Complete closes the receiving pass. Exactly one goods-received event is
// emitted per completion; a mismatch event is emitted only when the batch
// produced discrepancies.
func (a *ASN) Complete(mismatches []QuantityMismatch) error {
	if !a.Status.CanTransitionTo(ASNStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to completed", a.Status))
	}

	a.Status = ASNStatusCompleted
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewGoodsReceivedEvent(a))
	if len(mismatches) > 0 {
		a.AddDomainEvent(NewReceivingMismatchEvent(a, mismatches))
	}

	return nil
}

// Cancel moves the ASN to the absorbing cancelled state
func (a *ASN) Cancel(reason string) error {
	if !a.Status.CanTransitionTo(ASNStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel an ASN in %s state", a.Status))
	}

	a.Status = ASNStatusCancelled
	if reason != "" {
		a.Notes = reason
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewASNCancelledEvent(a, reason))

	return nil
}
