package receiving

import (
	"context"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/shared"
)

// ASNRepository defines the interface for ASN persistence. The ASN is the
// only aggregate this engine mutates; concurrent receiving sessions against
// the same ASN are serialized here via SaveWithLock, not inside the engine.
type ASNRepository interface {
	// FindByNumber finds an ASN by its external ASN number, lines included
	FindByNumber(ctx context.Context, asnNumber string) (*ASN, error)

	// FindByStatus finds ASNs in the given status, with the total count
	// across all pages
	FindByStatus(ctx context.Context, status ASNStatus, filter shared.Filter) ([]ASN, int64, error)

	// ExistsByNumber checks whether an ASN number is already registered
	ExistsByNumber(ctx context.Context, asnNumber string) (bool, error)

	// Save creates or updates an ASN with its lines
	Save(ctx context.Context, asn *ASN) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, asn *ASN) error
}

// DockAppointmentRepository defines the interface for appointment persistence
type DockAppointmentRepository interface {
	// FindByASN finds all appointments for an ASN
	FindByASN(ctx context.Context, asnID uuid.UUID) ([]DockAppointment, error)

	// Save creates or updates an appointment
	Save(ctx context.Context, appointment *DockAppointment) error
}

// QualityInspectionRepository defines the interface for inspection
// persistence. Inspections are append-only records.
type QualityInspectionRepository interface {
	// FindByASN finds all inspections recorded for an ASN
	FindByASN(ctx context.Context, asnID uuid.UUID) ([]QualityInspection, error)

	// Save stores an inspection record
	Save(ctx context.Context, inspection *QualityInspection) error
}

// DockReservationRepository defines the interface for the dock reservation
// table consulted before dock assignment
type DockReservationRepository interface {
	// FindOverlapping finds reservations for the dock that intersect the window
	FindOverlapping(ctx context.Context, dock string, window TimeWindow) ([]DockReservation, error)

	// Save stores a reservation
	Save(ctx context.Context, reservation *DockReservation) error

	// DeleteByASN removes all reservations held by an ASN (e.g., on cancel)
	DeleteByASN(ctx context.Context, asnID uuid.UUID) error
}
