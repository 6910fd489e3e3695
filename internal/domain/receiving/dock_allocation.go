package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/shared"
)

// TimeWindow is the interval a dock is held for one ASN
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two windows intersect
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// DockReservation holds a dock for an ASN over a time window, so that two
// shipments are never booked onto the same dock at the same time.
type DockReservation struct {
	shared.BaseEntity
	Dock        string    `gorm:"not null;index:idx_dock_reservation_window"`
	ASNID       uuid.UUID `gorm:"type:uuid;not null;index"`
	WindowStart time.Time `gorm:"not null;index:idx_dock_reservation_window"`
	WindowEnd   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DockReservation) TableName() string {
	return "dock_reservations"
}

// NewDockReservation creates a reservation for the given dock and window
func NewDockReservation(dock string, asnID uuid.UUID, window TimeWindow) (*DockReservation, error) {
	if dock == "" {
		return nil, shared.NewValidationError("Reservation requires a dock")
	}
	if !window.End.After(window.Start) {
		return nil, shared.NewValidationError("Reservation window end must be after start")
	}

	return &DockReservation{
		BaseEntity:  shared.NewBaseEntity(),
		Dock:        dock,
		ASNID:       asnID,
		WindowStart: window.Start,
		WindowEnd:   window.End,
	}, nil
}

// DockAllocator selects a dock for an ASN that was submitted without one.
// The policy is injectable: production wiring uses the reservation-aware
// allocator, tests supply a deterministic stub. Whatever the policy, every
// scheduled ASN must have a non-empty dock before receiving starts.
type DockAllocator interface {
	// Name identifies the allocation policy
	Name() string
	// Allocate picks a dock for the ASN over the given arrival window
	Allocate(ctx context.Context, asn *ASN, window TimeWindow) (string, error)
}

// ErrNoDockAvailable is returned when every configured dock is reserved for
// the requested window
var ErrNoDockAvailable = shared.NewDomainError("NO_DOCK_AVAILABLE", "No dock is free in the requested time window")
