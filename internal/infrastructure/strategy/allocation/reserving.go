package allocation

import (
	"context"

	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/inboundhq/receiving/internal/domain/shared"
)

// ReservingDockAllocator assigns the first configured dock with no
// reservation overlapping the requested window, and records a reservation so
// a later ASN cannot be booked onto the same dock at the same time.
type ReservingDockAllocator struct {
	docks        []string
	reservations receiving.DockReservationRepository
}

// NewReservingDockAllocator creates a new ReservingDockAllocator.
// Docks are tried in the given order, so preferred doors go first.
func NewReservingDockAllocator(docks []string, reservations receiving.DockReservationRepository) *ReservingDockAllocator {
	return &ReservingDockAllocator{
		docks:        docks,
		reservations: reservations,
	}
}

// Name identifies the allocation policy
func (a *ReservingDockAllocator) Name() string {
	return "reservation"
}

// Allocate picks the first free dock for the window and reserves it
func (a *ReservingDockAllocator) Allocate(ctx context.Context, asn *receiving.ASN, window receiving.TimeWindow) (string, error) {
	if len(a.docks) == 0 {
		return "", receiving.ErrNoDockAvailable
	}

	for _, dock := range a.docks {
		overlapping, err := a.reservations.FindOverlapping(ctx, dock, window)
		if err != nil {
			return "", shared.NewStorageFault("dock_allocation", err)
		}
		if len(overlapping) > 0 {
			continue
		}

		reservation, err := receiving.NewDockReservation(dock, asn.ID, window)
		if err != nil {
			return "", err
		}
		if err := a.reservations.Save(ctx, reservation); err != nil {
			return "", shared.NewStorageFault("dock_allocation", err)
		}
		return dock, nil
	}

	return "", receiving.ErrNoDockAvailable
}

var _ receiving.DockAllocator = (*ReservingDockAllocator)(nil)
